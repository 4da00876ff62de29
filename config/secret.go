package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const APIKeyEnv = "TRIAS_API_KEY"

type MissingEnvironmentKey string

func (k MissingEnvironmentKey) Error() string {
	return fmt.Sprintf("%s environment variable not set", string(k))
}

// FromEnvironment reads key from the environment, or from the file named by
// key + "_FILE" when key itself is empty.
func FromEnvironment(key string) (string, error) {
	value := os.Getenv(key)
	path := os.Getenv(key + "_FILE")
	if value == "" && path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrapf(err, "cannot read %s_FILE `%s`", key, path)
		}
		value = string(content)
	}

	if value == "" {
		return "", MissingEnvironmentKey(key)
	}
	return strings.TrimSpace(value), nil
}
