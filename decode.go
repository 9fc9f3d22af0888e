// FILE: lixenwraith/flatconfig/decode.go
package flatconfig

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ScanTag is the struct tag consulted by Scan. Untagged fields match keys
// by field name, ignoring case.
const ScanTag = "config"

// Scan decodes the configuration below basePath into target, which must be a
// non-nil pointer to a struct or map. The nested tree is rebuilt from the
// flat keys, so "servers[0].host" fills element 0 of a Servers slice.
// A basePath that does not exist decodes an empty section.
func (s *Service) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return invalidArgument("scan target must be a non-nil pointer, got %T", target)
	}

	tree := buildTree(s.Snapshot())

	section := navigateToPath(tree, basePath)
	if section == nil {
		section = make(map[string]any)
	}
	if _, ok := section.(map[string]any); !ok {
		return fmt.Errorf("configuration path %q does not refer to a section, but to type %T", basePath, section)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          ScanTag,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(section); err != nil {
		return fmt.Errorf("failed to scan section %q into %T: %w", basePath, target, err)
	}
	return nil
}
