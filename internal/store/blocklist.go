package store

import "time"

// BlocklistEntry records a revoked token id. Entries are append-only during
// normal operation and garbage-collected once their expiry passes, since an
// expired token fails validation anyway.
type BlocklistEntry struct {
	TokenID   string    `json:"tokenId"`
	ExpiresAt time.Time `json:"expiresAt"`
	BlockedAt time.Time `json:"blockedAt"`
}

// BlockToken adds a token id to the blocklist. Blocking an already-blocked
// token is a no-op.
func (s *Store) BlockToken(tokenID string, expiresAt time.Time) error {
	return s.blocklist.Update(func(entries []BlocklistEntry) ([]BlocklistEntry, bool, error) {
		for _, e := range entries {
			if e.TokenID == tokenID {
				return entries, false, nil
			}
		}
		entries = append(entries, BlocklistEntry{
			TokenID:   tokenID,
			ExpiresAt: expiresAt,
			BlockedAt: time.Now().UTC(),
		})
		return entries, true, nil
	})
}

// IsTokenBlocked reports whether the token id has been revoked.
func (s *Store) IsTokenBlocked(tokenID string) (bool, error) {
	entries, err := s.blocklist.LoadAll()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.TokenID == tokenID {
			return true, nil
		}
	}
	return false, nil
}

// SweepExpiredTokens drops entries whose expiry is in the past and returns
// how many were removed.
func (s *Store) SweepExpiredTokens(now time.Time) (int, error) {
	removed := 0
	err := s.blocklist.Update(func(entries []BlocklistEntry) ([]BlocklistEntry, bool, error) {
		kept := entries[:0]
		for _, e := range entries {
			if e.ExpiresAt.After(now) {
				kept = append(kept, e)
			} else {
				removed++
			}
		}
		return kept, removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
