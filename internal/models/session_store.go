package models

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SessionStore persists the current session to a file in the config directory
type SessionStore struct {
	SessionFile string
}

func NewSessionStore(configDir string) *SessionStore {
	return &SessionStore{
		SessionFile: filepath.Join(configDir, ".session"),
	}
}

func (ss *SessionStore) Save(session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(ss.SessionFile, data, 0600) // Restricted permissions
}

func (ss *SessionStore) Get() (*Session, error) {
	data, err := os.ReadFile(ss.SessionFile)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (ss *SessionStore) Clear() error {
	if _, err := os.Stat(ss.SessionFile); os.IsNotExist(err) {
		return nil // File doesn't exist, nothing to clear
	}
	return os.Remove(ss.SessionFile)
}
