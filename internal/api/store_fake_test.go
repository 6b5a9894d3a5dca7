package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"svgshare/internal/database"
	"svgshare/internal/models"
)

// memStore mirrors database.Store semantics closely enough for handler
// tests that do not need Docker.
type memStore struct {
	mu sync.Mutex

	nextUserID  int64
	nextFileID  int64
	nextShareID int64

	users  map[int64]*models.User
	files  map[int64]*models.File
	shares map[int64]*models.Share // by file id

	pingErr   error
	createErr error
	clock     time.Time
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[int64]*models.User),
		files:  make(map[int64]*models.File),
		shares: make(map[int64]*models.Share),
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// now advances a fake clock so that ordering by created_at is deterministic.
func (m *memStore) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *memStore) usage(userID int64) int64 {
	var total int64
	for _, f := range m.files {
		if f.UserID == userID {
			total += f.Size
		}
	}
	return total
}

func (m *memStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (m *memStore) CreateUser(ctx context.Context, arg database.CreateUserParams) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createUserLocked(arg)
}

func (m *memStore) createUserLocked(arg database.CreateUserParams) (*models.User, error) {
	if !models.ValidRole(arg.Role) {
		return nil, database.ErrInvalidRole
	}
	if !models.ValidStatus(arg.Status) {
		return nil, database.ErrInvalidStatus
	}
	if arg.StorageLimit <= 0 {
		arg.StorageLimit = models.DefaultStorageLimit
	}
	m.nextUserID++
	u := &models.User{
		ID:           m.nextUserID,
		GithubID:     arg.GithubID,
		Username:     arg.Username,
		AvatarURL:    arg.AvatarURL,
		Role:         arg.Role,
		Status:       arg.Status,
		StorageLimit: arg.StorageLimit,
		CreatedAt:    m.now(),
	}
	m.users[u.ID] = u
	c := *u
	return &c, nil
}

func (m *memStore) GetOrCreateUser(ctx context.Context, arg database.CreateUserParams) (*models.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, false, m.createErr
	}
	for _, u := range m.users {
		if u.GithubID == arg.GithubID {
			c := *u
			return &c, false, nil
		}
	}
	u, err := m.createUserLocked(arg)
	return u, err == nil, err
}

func (m *memStore) GetUserWithUsage(ctx context.Context, id int64) (*models.UserWithUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &models.UserWithUsage{User: *u, TotalStorageUsed: m.usage(id)}, nil
}

func (m *memStore) ListUsers(ctx context.Context, arg database.ListUsersParams) ([]models.UserWithUsage, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	arg.Normalize()

	search := strings.ToLower(strings.TrimSpace(arg.Search))
	var matched []models.UserWithUsage
	for _, u := range m.users {
		if arg.Role != "" && u.Role != arg.Role {
			continue
		}
		if arg.Status != "" && u.Status != arg.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Username), search) {
			continue
		}
		matched = append(matched, models.UserWithUsage{User: *u, TotalStorageUsed: m.usage(u.ID)})
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := (arg.Page - 1) * arg.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + arg.Limit
	if end > len(matched) {
		end = len(matched)
	}
	page := append([]models.UserWithUsage{}, matched[start:end]...)
	return page, total, nil
}

func (m *memStore) UpdateUserStatus(ctx context.Context, id int64, status string) (*models.User, error) {
	if !models.ValidStatus(status) {
		return nil, database.ErrInvalidStatus
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.Status = status
	c := *u
	return &c, nil
}

func (m *memStore) UpdateUserQuota(ctx context.Context, id int64, limit int64) (*models.User, error) {
	if limit < 0 {
		return nil, database.ErrInvalidQuota
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.StorageLimit = limit
	c := *u
	return &c, nil
}

func (m *memStore) GetStorageUsed(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage(userID), nil
}

func (m *memStore) CreateFile(ctx context.Context, arg database.CreateFileParams) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.users[arg.UserID]; !ok {
		return nil, database.ErrOwnerNotFound
	}
	m.nextFileID++
	now := m.now()
	f := &models.File{
		ID:         m.nextFileID,
		UserID:     arg.UserID,
		Filename:   arg.Filename,
		Size:       arg.Size,
		StorageKey: arg.StorageKey,
		Width:      arg.Width,
		Height:     arg.Height,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.files[f.ID] = f
	c := *f
	return &c, nil
}

func (m *memStore) ListFilesByUser(ctx context.Context, userID int64) ([]models.FileWithShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := []models.FileWithShare{}
	for _, f := range m.files {
		if f.UserID != userID {
			continue
		}
		row := models.FileWithShare{File: *f}
		if s, ok := m.shares[f.ID]; ok {
			shareID := s.ShareID
			row.ShareEnabled = s.IsEnabled
			row.ShareID = &shareID
			row.VisitCount = s.VisitCount
		}
		files = append(files, row)
	}
	sort.Slice(files, func(i, j int) bool {
		if !files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].CreatedAt.After(files[j].CreatedAt)
		}
		return files[i].ID > files[j].ID
	})
	return files, nil
}

func (m *memStore) GetFileByID(ctx context.Context, id, ownerID int64) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != ownerID {
		return nil, nil
	}
	c := *f
	return &c, nil
}

func (m *memStore) RenameFile(ctx context.Context, id, ownerID int64, filename string) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != ownerID {
		return nil, nil
	}
	f.Filename = filename
	f.UpdatedAt = m.now()
	c := *f
	return &c, nil
}

func (m *memStore) UpdateFileContent(ctx context.Context, arg database.UpdateFileContentParams) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[arg.ID]
	if !ok || f.UserID != arg.OwnerID {
		return nil, nil
	}
	f.Size = arg.Size
	f.Width = arg.Width
	f.Height = arg.Height
	f.UpdatedAt = m.now()
	c := *f
	return &c, nil
}

func (m *memStore) DeleteFile(ctx context.Context, id, ownerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != ownerID {
		return false, nil
	}
	delete(m.files, id)
	delete(m.shares, id)
	return true, nil
}

func (m *memStore) UpsertShare(ctx context.Context, arg database.UpsertShareParams) (*models.Share, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shares[arg.FileID]; ok {
		if arg.Enable != nil {
			s.IsEnabled = *arg.Enable
		} else {
			s.IsEnabled = !s.IsEnabled
		}
		c := *s
		return &c, false, nil
	}
	for _, s := range m.shares {
		if s.ShareID == arg.NewShareID {
			return nil, false, database.ErrShareAlreadyExists
		}
	}
	enabled := true
	if arg.Enable != nil {
		enabled = *arg.Enable
	}
	m.nextShareID++
	s := &models.Share{
		ID:        m.nextShareID,
		FileID:    arg.FileID,
		ShareID:   arg.NewShareID,
		IsEnabled: enabled,
		CreatedAt: m.now(),
	}
	m.shares[arg.FileID] = s
	c := *s
	return &c, true, nil
}

func (m *memStore) GetPublicShare(ctx context.Context, shareID string) (*models.PublicShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shares {
		if s.ShareID != shareID || !s.IsEnabled {
			continue
		}
		f := m.files[s.FileID]
		owner := m.users[f.UserID]
		return &models.PublicShare{
			ShareID:    s.ShareID,
			FileID:     f.ID,
			Filename:   f.Filename,
			Size:       f.Size,
			Width:      f.Width,
			Height:     f.Height,
			VisitCount: s.VisitCount,
			Owner:      owner.Username,
			CreatedAt:  f.CreatedAt,
			UpdatedAt:  f.UpdatedAt,
			UserID:     f.UserID,
			StorageKey: f.StorageKey,
		}, nil
	}
	return nil, nil
}

func (m *memStore) IncrementVisitCount(ctx context.Context, shareID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shares {
		if s.ShareID == shareID {
			s.VisitCount++
		}
	}
	return nil
}

func (m *memStore) share(fileID int64) *models.Share {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shares[fileID]; ok {
		c := *s
		return &c
	}
	return nil
}

func (m *memStore) fileCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
