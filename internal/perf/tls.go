package perf

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
)

// tlsOptions names the files used to build a client TLS configuration
type tlsOptions struct {
	CACert       string
	ClientCert   string
	ClientKey    string
	InsecureSkip bool
}

// newTLSConfig creates a TLS configuration. The CA file must be PEM encoded.
func newTLSConfig(o tlsOptions) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: o.InsecureSkip, // #nosec G402 - configurable for testing environments
		MinVersion:         tls.VersionTLS12,
	}

	if o.CACert != "" {
		if ext := strings.ToLower(o.CACert); strings.HasSuffix(ext, ".jks") || strings.HasSuffix(ext, ".p12") {
			return nil, fmt.Errorf("truststore %s is not PEM; convert it with keytool or openssl", o.CACert)
		}
		caCert, err := os.ReadFile(o.CACert)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if o.ClientCert != "" && o.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(o.ClientCert, o.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert/key: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
