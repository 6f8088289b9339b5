package identity

import (
	"fmt"
	"os"
	"path/filepath"
)

// Label is the certificate common name / SAN used for every generated
// client identity. It has no relation to the host's own hostname; it only
// needs to be a stable string the TV echoes back during pairing logs.
const Label = "atvremote"

const (
	certFileName = "client.crt"
	keyFileName  = "client.key"
)

// FileStore loads or creates a ClientIdentity under a base directory,
// persisting the certificate and key as separate PEM files. The key file is
// written with owner-only permissions.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. dir is created on first
// write if it does not exist.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) certPath() string { return filepath.Join(s.dir, certFileName) }
func (s *FileStore) keyPath() string  { return filepath.Join(s.dir, keyFileName) }

// LoadOrCreate returns the persisted identity if both files are present, or
// generates and persists a new one otherwise. Repeated calls against the
// same directory return the SAME identity.
func (s *FileStore) LoadOrCreate() (*ClientIdentity, error) {
	id, err := s.Load()
	if err == nil {
		return id, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	id, err = Generate(Label)
	if err != nil {
		return nil, err
	}
	if err := s.Save(id); err != nil {
		return nil, err
	}
	return id, nil
}

// Load reads a previously persisted identity. It returns an error
// satisfying os.IsNotExist when no identity has been saved yet.
func (s *FileStore) Load() (*ClientIdentity, error) {
	certData, err := os.ReadFile(s.certPath())
	if err != nil {
		return nil, err
	}
	keyData, err := os.ReadFile(s.keyPath())
	if err != nil {
		return nil, err
	}

	cert, err := DecodeCertPEM(certData)
	if err != nil {
		return nil, fmt.Errorf("identity: decode certificate: %w", err)
	}
	key, err := DecodeKeyPEM(keyData)
	if err != nil {
		return nil, fmt.Errorf("identity: decode key: %w", err)
	}
	return &ClientIdentity{PrivateKey: key, Certificate: cert}, nil
}

// Save persists id's certificate and key to the store's directory.
func (s *FileStore) Save(id *ClientIdentity) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("identity: create directory: %w", err)
	}
	if err := os.WriteFile(s.certPath(), EncodeCertPEM(id.Certificate), 0644); err != nil {
		return fmt.Errorf("identity: write certificate: %w", err)
	}
	if err := os.WriteFile(s.keyPath(), EncodeKeyPEM(id.PrivateKey), 0600); err != nil {
		return fmt.Errorf("identity: write key: %w", err)
	}
	return nil
}
