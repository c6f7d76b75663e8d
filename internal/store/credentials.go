// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"postpilot/internal/models"
)

// CredentialStore handles platform API credential database operations.
// Credentials saved here take precedence over environment variables.
type CredentialStore struct {
	db *sql.DB
}

// NewCredentialStore creates a new CredentialStore with the given database connection.
func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Upsert saves credentials for a platform, replacing any existing row.
// A platform with at least one non-empty value is marked connected.
func (s *CredentialStore) Upsert(platform models.Platform, values map[string]string) error {
	connected := false
	for _, v := range values {
		if v != "" {
			connected = true
			break
		}
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO platform_credentials (platform, cred_values, connected, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (platform) DO UPDATE
		SET cred_values = EXCLUDED.cred_values,
		    connected = EXCLUDED.connected,
		    updated_at = NOW()
	`, platform, raw, connected)
	if err != nil {
		return fmt.Errorf("upsert credentials: %w", err)
	}
	return nil
}

// Get retrieves the stored credentials for a platform. Returns nil if
// none have been saved.
func (s *CredentialStore) Get(platform models.Platform) (*models.PlatformCredential, error) {
	c := &models.PlatformCredential{}
	var raw []byte
	err := s.db.QueryRow(`
		SELECT platform, cred_values, connected, updated_at
		FROM platform_credentials WHERE platform = $1
	`, platform).Scan(&c.Platform, &raw, &c.Connected, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	if err := json.Unmarshal(raw, &c.Values); err != nil {
		return nil, fmt.Errorf("unmarshal credentials: %w", err)
	}
	return c, nil
}

// Status returns the connected flag for every platform, defaulting to
// false for platforms with no stored row. Secret values are never included.
func (s *CredentialStore) Status() (map[models.Platform]bool, error) {
	status := make(map[models.Platform]bool, len(models.AllPlatforms))
	for _, p := range models.AllPlatforms {
		status[p] = false
	}

	rows, err := s.db.Query(`SELECT platform, connected FROM platform_credentials`)
	if err != nil {
		return nil, fmt.Errorf("credential status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var platform models.Platform
		var connected bool
		if err := rows.Scan(&platform, &connected); err != nil {
			return nil, fmt.Errorf("scan credential status: %w", err)
		}
		status[platform] = connected
	}
	return status, rows.Err()
}

// Delete removes the stored credentials for a platform.
func (s *CredentialStore) Delete(platform models.Platform) error {
	_, err := s.db.Exec(`DELETE FROM platform_credentials WHERE platform = $1`, platform)
	if err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}
