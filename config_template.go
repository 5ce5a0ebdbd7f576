package retentiond

import _ "embed"

// defaultConfig contains the commented default configuration template.
//
//go:embed retentiond.yml.example
var defaultConfig []byte

// ConfigTemplate returns a safe copy of the default configuration template.
func ConfigTemplate() []byte {
	buf := make([]byte, len(defaultConfig))
	copy(buf, defaultConfig)
	return buf
}
