package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veilbox/veil/internal/consent"
	verrors "github.com/veilbox/veil/internal/errors"
)

// Memory is an in-process Backend used by tests and by the end-to-end
// scenario. It implements the same consent state machine a real backend
// would: grants expire, counts run down, and terminal states withhold
// wrapped keys.
type Memory struct {
	mu         sync.Mutex
	identities map[string]Identity
	items      map[string]*memItem
	requests   map[string]*Request
	now        func() time.Time
}

type memItem struct {
	rec ItemRecord
	// wrapped holds one wrapped key per authorized recipient, keyed by
	// username. The owner's entry is created with the item.
	wrapped map[string]string
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		identities: make(map[string]Identity),
		items:      make(map[string]*memItem),
		requests:   make(map[string]*Request),
		now:        time.Now,
	}
}

// SetClock overrides the backend's notion of now, for expiry tests.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) RegisterIdentity(_ context.Context, id Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.identities[id.Username]; ok {
		return fmt.Errorf("%w: %s", verrors.ErrIdentityExists, id.Username)
	}
	m.identities[id.Username] = id
	return nil
}

func (m *Memory) FetchPublicKey(_ context.Context, username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.identities[username]
	if !ok {
		return "", fmt.Errorf("%w: %s", verrors.ErrIdentityNotFound, username)
	}
	return id.PublicKeyPEM, nil
}

func (m *Memory) PutItem(_ context.Context, rec ItemRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.identities[rec.Owner]; !ok {
		return fmt.Errorf("%w: %s", verrors.ErrIdentityNotFound, rec.Owner)
	}
	m.items[rec.ID] = &memItem{
		rec:     rec,
		wrapped: map[string]string{rec.Owner: rec.EncryptedAESKey},
	}
	return nil
}

func (m *Memory) UpdateItemPayload(_ context.Context, itemID, owner, encryptedData, iv string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok || item.rec.Owner != owner {
		return fmt.Errorf("%w: %s", verrors.ErrItemNotFound, itemID)
	}
	item.rec.EncryptedData = encryptedData
	item.rec.IV = iv
	return nil
}

func (m *Memory) GetItem(_ context.Context, itemID, requester string) (*ItemView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", verrors.ErrItemNotFound, itemID)
	}

	if item.rec.Owner != requester {
		if err := m.consumeGrant(itemID, requester); err != nil {
			return nil, err
		}
	}

	wrapped, ok := item.wrapped[requester]
	if !ok {
		return nil, fmt.Errorf("%w: no wrapped key for %s", verrors.ErrNoGrant, requester)
	}

	return &ItemView{
		ID:              item.rec.ID,
		Owner:           item.rec.Owner,
		Name:            item.rec.Name,
		Kind:            item.rec.Kind,
		EncryptedData:   item.rec.EncryptedData,
		FileBody:        item.rec.FileBody,
		FileName:        item.rec.FileName,
		EncryptedAESKey: wrapped,
		IV:              item.rec.IV,
	}, nil
}

// consumeGrant finds the requester's consent request for the item and
// advances its state: expiry is checked first, then the view count is
// spent. Called with the lock held.
func (m *Memory) consumeGrant(itemID, requester string) error {
	var req *Request
	for _, r := range m.requests {
		if r.ItemID == itemID && r.Seeker == requester {
			req = r
			break
		}
	}
	if req == nil {
		return fmt.Errorf("%w: no request for %s", verrors.ErrNoGrant, requester)
	}

	switch req.Status {
	case consent.Pending:
		return fmt.Errorf("%w: request still pending", verrors.ErrNoGrant)
	case consent.Rejected, consent.Revoked, consent.Expired, consent.CountExhausted:
		return fmt.Errorf("%w: %s", verrors.ErrGrantRevoked, req.Status)
	case consent.Approved:
		// fall through to window checks
	}

	if !req.ExpiresAt.IsZero() && m.now().After(req.ExpiresAt) {
		req.Status = consent.Expired
		req.StatusName = req.Status.String()
		return fmt.Errorf("%w: %s", verrors.ErrGrantRevoked, req.Status)
	}
	if req.AllowedViews > 0 {
		if req.ViewsLeft <= 0 {
			req.Status = consent.CountExhausted
			req.StatusName = req.Status.String()
			return fmt.Errorf("%w: %s", verrors.ErrGrantRevoked, req.Status)
		}
		req.ViewsLeft--
		if req.ViewsLeft == 0 {
			req.Status = consent.CountExhausted
			req.StatusName = req.Status.String()
		}
	}
	return nil
}

func (m *Memory) ListItems(_ context.Context, username string) ([]ItemSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []ItemSummary
	for _, item := range m.items {
		if item.rec.Owner == username {
			out = append(out, ItemSummary{
				ID:    item.rec.ID,
				Owner: item.rec.Owner,
				Name:  item.rec.Name,
				Kind:  item.rec.Kind,
			})
		}
	}
	return out, nil
}

func (m *Memory) DeleteItem(_ context.Context, itemID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok || item.rec.Owner != owner {
		return fmt.Errorf("%w: %s", verrors.ErrItemNotFound, itemID)
	}
	delete(m.items, itemID)
	return nil
}

func (m *Memory) RequestAccess(_ context.Context, itemID, seeker string, allowedViews int, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return "", fmt.Errorf("%w: %s", verrors.ErrItemNotFound, itemID)
	}
	if _, ok := m.identities[seeker]; !ok {
		return "", fmt.Errorf("%w: %s", verrors.ErrIdentityNotFound, seeker)
	}

	req := &Request{
		ID:           uuid.New().String(),
		ItemID:       itemID,
		Seeker:       seeker,
		Provider:     item.rec.Owner,
		Status:       consent.Pending,
		StatusName:   consent.Pending.String(),
		AllowedViews: allowedViews,
		ViewsLeft:    allowedViews,
	}
	if ttl > 0 {
		req.ExpiresAt = m.now().Add(ttl)
	}
	m.requests[req.ID] = req
	return req.ID, nil
}

func (m *Memory) ListRequests(_ context.Context, provider string) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Request
	for _, r := range m.requests {
		if r.Provider == provider {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *Memory) Approve(_ context.Context, requestID string, wrappedKeyForSeeker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[requestID]
	if !ok {
		return fmt.Errorf("%w: request %s", verrors.ErrItemNotFound, requestID)
	}
	item, ok := m.items[req.ItemID]
	if !ok {
		return fmt.Errorf("%w: %s", verrors.ErrItemNotFound, req.ItemID)
	}

	req.Status = consent.Approved
	req.StatusName = req.Status.String()
	item.wrapped[req.Seeker] = wrappedKeyForSeeker
	return nil
}

func (m *Memory) Decide(_ context.Context, requestID string, status consent.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[requestID]
	if !ok {
		return fmt.Errorf("%w: request %s", verrors.ErrItemNotFound, requestID)
	}

	req.Status = status
	req.StatusName = status.String()
	if status.Terminal() {
		// Withhold the wrapped key from now on; the blob itself is
		// useless to the server and simply dropped.
		if item, ok := m.items[req.ItemID]; ok {
			delete(item.wrapped, req.Seeker)
		}
	}
	return nil
}
