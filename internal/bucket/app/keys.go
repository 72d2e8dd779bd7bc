package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/anurag24-26/openup/pkg/cryptox"
	"github.com/anurag24-26/openup/pkg/jwtx"
)

// InitSessionKeys loads the Ed25519 session-signing key from the configured
// PEM file, or mints an ephemeral key when none is configured. With an
// ephemeral key every outstanding session dies on restart, which is fine for
// dev and single-node setups.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, error) {
	var pemKey []byte

	if cfg.SessionKeyFile != "" {
		data, err := os.ReadFile(cfg.SessionKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read session key file: %w", err)
		}
		pemKey = data
		logger.Info("session signing key loaded", "path", cfg.SessionKeyFile)
	} else {
		data, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		pemKey = data
		logger.Warn("no session key file configured; using an ephemeral key, existing sessions are now invalid")
	}

	signer, err := jwtx.NewSignerEdDSA(pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session signer: %w", err)
	}

	return signer, nil
}
