// Package resource supplies localized labels, icons and tooltips.
package resource

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
)

//go:embed messages.yaml
var defaultMessages []byte

// Bundle is a flat set of dotted message keys.
type Bundle struct {
	messages map[string]string
}

// Load returns the embedded messages with path merged over them. An empty
// path or a missing file yields the defaults.
func Load(path string) (*Bundle, error) {
	b := &Bundle{messages: make(map[string]string)}
	if err := b.merge(defaultMessages); err != nil {
		return nil, fmt.Errorf("resource: default messages: %w", err)
	}
	if strings.TrimSpace(path) == "" {
		return b, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return b, nil
		}
		return nil, fmt.Errorf("resource: read %s: %w", path, err)
	}
	if err := b.merge(data); err != nil {
		return nil, fmt.Errorf("resource: parse %s: %w", path, err)
	}
	return b, nil
}

// Default returns the embedded messages. It panics only if the embedded file
// is malformed.
func Default() *Bundle {
	b, err := Load("")
	if err != nil {
		panic(err)
	}
	return b
}

// Message returns the text for key, or the key itself when it is missing.
func (b *Bundle) Message(key string) string {
	if v, ok := b.messages[key]; ok {
		return v
	}
	return key
}

// Messagef formats the message for key with args.
func (b *Bundle) Messagef(key string, args ...interface{}) string {
	return fmt.Sprintf(b.Message(key), args...)
}

// Keys lists all known keys, sorted.
func (b *Bundle) Keys() []string {
	keys := make([]string, 0, len(b.messages))
	for k := range b.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resource implements host.ResourceProvider.
func (b *Bundle) Resource(id model.PageID) host.Resource {
	prefix := "quickstart.page." + string(id) + "."
	return host.Resource{
		Label:   b.Message(prefix + "label"),
		Icon:    b.Message(prefix + "icon"),
		Tooltip: b.Message(prefix + "tooltip"),
	}
}

func (b *Bundle) merge(data []byte) error {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	flatten("", tree, b.messages)
	return nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
