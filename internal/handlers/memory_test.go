package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/repository"
	"github.com/Sanjey2005/friends-associates/internal/services"
)

// memoryStore is an in-process stand-in for every repository the handlers
// use. Each entity kind lives in its own map guarded by one mutex.
type memoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]models.User
	admins   map[string]models.Admin
	vehicles map[uuid.UUID]models.Vehicle
	policies map[uuid.UUID]models.Policy
	leads    map[uuid.UUID]models.Lead
	chats    map[uuid.UUID]*models.Chat
	seq      uint64
	clock    time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    map[uuid.UUID]models.User{},
		admins:   map[string]models.Admin{},
		vehicles: map[uuid.UUID]models.Vehicle{},
		policies: map[uuid.UUID]models.Policy{},
		leads:    map[uuid.UUID]models.Lead{},
		chats:    map[uuid.UUID]*models.Chat{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing creation times so newest-first ordering
// is deterministic.
func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryStore) stamp(b *models.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = m.tick()
	b.UpdatedAt = b.CreatedAt
}

type memUsers struct{ *memoryStore }

// Create enforces the unique phone and email indexes like the database does.
func (m memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == user.Phone {
			return &repository.DuplicateError{Column: "phone"}
		}
		if user.Email != nil && u.EmailAddress() == *user.Email {
			return &repository.DuplicateError{Column: "email"}
		}
	}
	m.stamp(&user.BaseModel)
	m.users[user.ID] = *user
	return nil
}

func (m memUsers) Save(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m memUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (m memUsers) find(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if match(user) {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memUsers) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Phone == phone })
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.EmailAddress() == email })
}

func (m memUsers) PhoneTakenByOther(_ context.Context, phone string, id uuid.UUID) (bool, error) {
	_, err := m.find(func(u models.User) bool { return u.Phone == phone && u.ID != id })
	return err == nil, nil
}

func (m memUsers) EmailTakenByOther(_ context.Context, email string, id uuid.UUID) (bool, error) {
	_, err := m.find(func(u models.User) bool { return u.EmailAddress() == email && u.ID != id })
	return err == nil, nil
}

func (m memUsers) FindByVerificationToken(_ context.Context, token string, now time.Time) (*models.User, error) {
	return m.find(func(u models.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token &&
			u.VerificationTokenExpiry != nil && u.VerificationTokenExpiry.After(now)
	})
}

func (m memUsers) ConsumeResetToken(_ context.Context, token string, now time.Time, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == token &&
			u.ResetPasswordTokenExpiry != nil && u.ResetPasswordTokenExpiry.After(now) {
			u.PasswordHash = passwordHash
			u.ResetPasswordToken = nil
			u.ResetPasswordTokenExpiry = nil
			m.users[id] = u
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m memUsers) List(_ context.Context, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if limit > 0 {
		if offset >= len(users) {
			return []models.User{}, nil
		}
		end := offset + limit
		if end > len(users) {
			end = len(users)
		}
		users = users[offset:end]
	}
	return users, nil
}

func (m memUsers) Update(_ context.Context, id uuid.UUID, name, phone string, email *string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Name, user.Phone = name, phone
	if email != nil {
		user.Email = email
	}
	m.users[id] = user
	return &user, nil
}

// staleUsers answers every uniqueness pre-check with "free", the way a
// request racing another insert sees the table. Create still enforces the
// indexes.
type staleUsers struct{ memUsers }

func (staleUsers) FindByPhone(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (staleUsers) PhoneTakenByOther(context.Context, string, uuid.UUID) (bool, error) {
	return false, nil
}

func (staleUsers) EmailTakenByOther(context.Context, string, uuid.UUID) (bool, error) {
	return false, nil
}

func (m memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m memUsers) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type memAdmins struct{ *memoryStore }

func (m memAdmins) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	admin, ok := m.admins[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &admin, nil
}

type memVehicles struct{ *memoryStore }

func (m memVehicles) Create(_ context.Context, vehicle *models.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&vehicle.BaseModel)
	m.vehicles[vehicle.ID] = *vehicle
	if owner, ok := m.users[vehicle.UserID]; ok {
		vehicle.User = &owner
	}
	return nil
}

func (m memVehicles) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Vehicle
	for _, v := range m.vehicles {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memVehicles) ListAll(_ context.Context) ([]models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		if owner, ok := m.users[v.UserID]; ok {
			v.User = &owner
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memVehicles) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.vehicles)), nil
}

type memPolicies struct{ *memoryStore }

func (m memPolicies) populate(p models.Policy) models.Policy {
	if owner, ok := m.users[p.UserID]; ok {
		p.User = &owner
	}
	if vehicle, ok := m.vehicles[p.VehicleID]; ok {
		p.Vehicle = &vehicle
	}
	return p
}

func (m memPolicies) Create(_ context.Context, policy *models.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&policy.BaseModel)
	m.policies[policy.ID] = *policy
	*policy = m.populate(*policy)
	return nil
}

func (m memPolicies) Update(_ context.Context, id uuid.UUID, upd repository.PolicyUpdate) (*models.Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	policy, ok := m.policies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.PolicyLink != nil {
		policy.PolicyLink = *upd.PolicyLink
	}
	if upd.ExpiryDate != nil {
		policy.ExpiryDate = *upd.ExpiryDate
	}
	if upd.Notes != nil {
		policy.Notes = *upd.Notes
	}
	if upd.Status != nil {
		policy.Status = *upd.Status
	}
	m.policies[id] = policy
	populated := m.populate(policy)
	return &populated, nil
}

func (m memPolicies) sorted(match func(models.Policy) bool) []models.Policy {
	var out []models.Policy
	for _, p := range m.policies {
		if match(p) {
			out = append(out, m.populate(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out
}

func (m memPolicies) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(p models.Policy) bool { return p.UserID == userID }), nil
}

func (m memPolicies) ListAll(_ context.Context, filter models.PolicyFilter) ([]models.Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(p models.Policy) bool { return inExpiryBucket(filter, p) }), nil
}

// inExpiryBucket mirrors the range queries of PolicyRepository.ListAll. An
// empty or unknown bucket matches everything.
func inExpiryBucket(f models.PolicyFilter, p models.Policy) bool {
	switch f.Expiry {
	case models.ExpiryExpired:
		return p.ExpiryDate.Before(f.Now)
	case models.ExpiryActive:
		return !p.ExpiryDate.Before(f.Now)
	case models.ExpirySoon:
		return !p.ExpiryDate.Before(f.Now) && !p.ExpiryDate.After(f.Now.Add(models.SoonWindow))
	default:
		return true
	}
}

func (m memPolicies) CountByStatus(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int64{}
	for _, p := range m.policies {
		counts[p.Status]++
	}
	return counts, nil
}

type memLeads struct{ *memoryStore }

func (m memLeads) Create(_ context.Context, lead *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(&lead.BaseModel)
	m.leads[lead.ID] = *lead
	return nil
}

func (m memLeads) List(_ context.Context, limit, offset int) ([]models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Lead, 0, len(m.leads))
	for _, l := range m.leads {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 {
		if offset >= len(out) {
			return []models.Lead{}, nil
		}
		end := offset + limit
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out, nil
}

func (m memLeads) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	lead.Status = status
	m.leads[id] = lead
	return &lead, nil
}

func (m memLeads) CountByStatus(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int64{}
	for _, l := range m.leads {
		counts[l.Status]++
	}
	return counts, nil
}

type memChats struct{ *memoryStore }

func (m memChats) ensure(userID uuid.UUID) *models.Chat {
	chat, ok := m.chats[userID]
	if !ok {
		chat = &models.Chat{UserID: userID, LastUpdated: m.tick()}
		m.stamp(&chat.BaseModel)
		m.chats[userID] = chat
	}
	return chat
}

func (m memChats) snapshot(chat *models.Chat) *models.Chat {
	out := *chat
	out.Messages = append([]models.ChatMessage(nil), chat.Messages...)
	if owner, ok := m.users[chat.UserID]; ok {
		out.User = &owner
	}
	return &out
}

func (m memChats) FindOrCreate(_ context.Context, userID uuid.UUID) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(m.ensure(userID)), nil
}

func (m memChats) Append(_ context.Context, userID uuid.UUID, msg models.ChatMessage) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat := m.ensure(userID)
	m.seq++
	msg.Seq = m.seq
	msg.ChatID = chat.ID
	if msg.Timestamp.Before(chat.LastUpdated) {
		msg.Timestamp = chat.LastUpdated
	}
	chat.Messages = append(chat.Messages, msg)
	chat.LastUpdated = msg.Timestamp
	return m.snapshot(chat), nil
}

func (m memChats) ListAll(_ context.Context) ([]models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Chat, 0, len(m.chats))
	for _, chat := range m.chats {
		out = append(out, *m.snapshot(chat))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out, nil
}

// recordingMailer captures outgoing account mail.
type recordingMailer struct {
	mu            sync.Mutex
	verifications map[string]string
	resets        map[string]string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{verifications: map[string]string{}, resets: map[string]string{}}
}

func (r *recordingMailer) SendVerification(_ context.Context, to, token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifications[to] = token
	return true
}

func (r *recordingMailer) SendPasswordReset(_ context.Context, to, token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[to] = token
	return true
}

func (r *recordingMailer) resetToken(to string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resets[to]
}

func (r *recordingMailer) verificationToken(to string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.verifications[to]
}

type channelNotifier chan services.LeadNotification

func (n channelNotifier) NotifyNewLead(_ context.Context, lead services.LeadNotification) {
	n <- lead
}

type stubRunner struct {
	report *services.ReminderReport
	calls  int
}

func (s *stubRunner) Run(context.Context) (*services.ReminderReport, error) {
	s.calls++
	return s.report, nil
}
