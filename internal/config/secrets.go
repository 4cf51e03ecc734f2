package config

import (
	"fmt"
	"os"
	"strings"
)

// ResolveSecret reads a secret value using the *_FILE convention.
// If envName+"_FILE" is set, the secret is read from that file path.
// Otherwise the value of envName is returned, or "" when unset.
func ResolveSecret(envName string) (string, error) {
	fileEnv := envName + "_FILE"
	if filePath := os.Getenv(fileEnv); filePath != "" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read secret from %s=%s: %w", fileEnv, filePath, err)
		}
		return strings.TrimSpace(string(content)), nil
	}

	return os.Getenv(envName), nil
}

// Credentials are the basic-auth logins for the two API roles.
type Credentials struct {
	EditorUser string
	EditorPass string
	ViewerUser string
	ViewerPass string
}

// Enabled reports whether editor credentials are configured.
func (c Credentials) Enabled() bool {
	return c.EditorUser != "" && c.EditorPass != ""
}

// LoadCredentials resolves NINASEQ_EDITOR_USER/PASS and
// NINASEQ_VIEWER_USER/PASS, honouring the *_FILE variants.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	for _, s := range []struct {
		env string
		dst *string
	}{
		{"NINASEQ_EDITOR_USER", &c.EditorUser},
		{"NINASEQ_EDITOR_PASS", &c.EditorPass},
		{"NINASEQ_VIEWER_USER", &c.ViewerUser},
		{"NINASEQ_VIEWER_PASS", &c.ViewerPass},
	} {
		v, err := ResolveSecret(s.env)
		if err != nil {
			return Credentials{}, err
		}
		*s.dst = v
	}
	return c, nil
}
