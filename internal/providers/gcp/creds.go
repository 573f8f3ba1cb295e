package gcp

import (
	"strings"

	"google.golang.org/api/option"
)

// ClientOptions turns the configured credentials into client options. An
// inline JSON document wins over a file path; with neither, the clients fall
// back to application default credentials.
func ClientOptions(credentialsFile, credentialsJSON string) []option.ClientOption {
	if js := strings.TrimSpace(credentialsJSON); js != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(js))}
	}
	if path := strings.TrimSpace(credentialsFile); path != "" {
		if strings.HasPrefix(path, "{") {
			return []option.ClientOption{option.WithCredentialsJSON([]byte(path))}
		}
		return []option.ClientOption{option.WithCredentialsFile(path)}
	}
	return nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}
