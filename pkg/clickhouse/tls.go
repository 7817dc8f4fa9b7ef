package clickhouse

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/pkg/errors"
)

// TLSSettings names the PEM files used to connect over TLS. A CA file alone
// verifies the server; a certificate/key pair adds a client certificate.
type TLSSettings struct {
	CertFile string
	KeyFile  string
	CAFile   string
}

// Enabled reports whether any TLS file is configured.
func (s TLSSettings) Enabled() bool {
	return s.CertFile != "" || s.KeyFile != "" || s.CAFile != ""
}

// tlsConfig creates the TLS config for a connection to ClickHouse.
func tlsConfig(s TLSSettings) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if s.CertFile != "" || s.KeyFile != "" {
		if s.CertFile == "" || s.KeyFile == "" {
			return nil, errors.New("cert file and key file must be set together")
		}

		cert, err := tls.LoadX509KeyPair(s.CertFile, s.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "unable to load cert file/key file")
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	if s.CAFile != "" {
		caCert, err := os.ReadFile(s.CAFile)
		if err != nil {
			return nil, errors.Wrap(err, "unable to load CA file")
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errors.Errorf("no certificates found in CA file: %s", s.CAFile)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}
