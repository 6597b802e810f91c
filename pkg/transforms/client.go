package transforms

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var transforms []*TransformDefinition
var transformsLock sync.RWMutex

// SetupClient loads transform definitions from a YAML file holding one or
// more documents. A missing path leaves no transforms registered.
func SetupClient(path string) error {
	if path == "" {
		return nil
	}

	transformYaml, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(transformYaml))

	loaded := 0
	for {
		var transformDefinition TransformDefinition
		err := decoder.Decode(&transformDefinition)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}

		Register(&transformDefinition)
		loaded++
	}

	log.Info().Str("path", path).Int("transforms", loaded).Msg("Loaded transforms")

	return nil
}

func Register(transformDefinition *TransformDefinition) {
	transformsLock.Lock()
	defer transformsLock.Unlock()

	transforms = append(transforms, transformDefinition)
}

func Reset() {
	transformsLock.Lock()
	defer transformsLock.Unlock()

	transforms = nil
}
