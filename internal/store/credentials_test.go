// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"postpilot/internal/models"
)

func TestCredentialStoreUpsertAndGet(t *testing.T) {
	db := testDB(t)
	s := NewCredentialStore(db)

	t.Cleanup(func() { cleanCredentials(t, db, "facebook") })

	err := s.Upsert(models.PlatformFacebook, map[string]string{
		"page_access_token": "tok-123",
		"page_id":           "987",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	cred, err := s.Get(models.PlatformFacebook)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cred == nil {
		t.Fatal("expected credentials, got nil")
	}
	if !cred.Connected {
		t.Error("expected connected=true for non-empty values")
	}
	if cred.Get("page_access_token") != "tok-123" {
		t.Errorf("token: got %q, want tok-123", cred.Get("page_access_token"))
	}
	if cred.Get("missing") != "" {
		t.Error("expected empty string for missing key")
	}

	// Upsert replaces existing values.
	err = s.Upsert(models.PlatformFacebook, map[string]string{
		"page_access_token": "tok-456",
	})
	if err != nil {
		t.Fatalf("Upsert (replace): %v", err)
	}

	cred, _ = s.Get(models.PlatformFacebook)
	if cred.Get("page_access_token") != "tok-456" {
		t.Errorf("token after replace: got %q, want tok-456", cred.Get("page_access_token"))
	}
	if cred.Get("page_id") != "" {
		t.Error("expected old keys replaced, not merged")
	}
}

func TestCredentialStoreGetMissing(t *testing.T) {
	db := testDB(t)
	s := NewCredentialStore(db)

	t.Cleanup(func() { cleanCredentials(t, db, "reddit") })

	cred, err := s.Get(models.PlatformReddit)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cred != nil {
		t.Error("expected nil for platform with no saved credentials")
	}
}

func TestCredentialStoreEmptyValuesNotConnected(t *testing.T) {
	db := testDB(t)
	s := NewCredentialStore(db)

	t.Cleanup(func() { cleanCredentials(t, db, "twitter") })

	err := s.Upsert(models.PlatformTwitter, map[string]string{
		"bearer_token": "",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	cred, _ := s.Get(models.PlatformTwitter)
	if cred == nil {
		t.Fatal("expected row, got nil")
	}
	if cred.Connected {
		t.Error("expected connected=false when all values are empty")
	}
}

func TestCredentialStoreStatus(t *testing.T) {
	db := testDB(t)
	s := NewCredentialStore(db)

	t.Cleanup(func() { cleanCredentials(t, db, "instagram") })

	err := s.Upsert(models.PlatformInstagram, map[string]string{
		"access_token": "ig-tok",
		"account_id":   "42",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	status, err := s.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	// Every platform must be present in the map.
	for _, p := range models.AllPlatforms {
		if _, ok := status[p]; !ok {
			t.Errorf("expected %s in status map", p)
		}
	}
	if !status[models.PlatformInstagram] {
		t.Error("expected instagram connected")
	}
}

func TestCredentialStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewCredentialStore(db)

	err := s.Upsert(models.PlatformReddit, map[string]string{"client_id": "abc"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := s.Delete(models.PlatformReddit); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	cred, _ := s.Get(models.PlatformReddit)
	if cred != nil {
		t.Error("expected nil after delete")
	}
}
