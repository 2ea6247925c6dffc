package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"roomledger/internal/core"
)

// User is the locally stored identity of whoever runs this instance.
// There is no authentication, the household trusts its members.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

var ErrNoUser = errors.New("no user registered")

// Store persists the local user in a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// CurrentUser returns the registered user, or ErrNoUser if none exists yet.
func (s *Store) CurrentUser() (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// CreateUser registers a user with a fresh generated id. An already
// registered user is returned unchanged, registration happens once.
func (s *Store) CreateUser(name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, err := s.read(); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNoUser) {
		return nil, err
	}

	user := &User{
		ID:        GenerateID(),
		Name:      name,
		CreatedAt: core.Timestamp(time.Now()),
	}
	if err := s.write(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserName renames the registered user.
func (s *Store) UpdateUserName(name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.read()
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.UpdatedAt = core.Timestamp(time.Now())
	if err := s.write(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) read() (*User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoUser
		}
		return nil, fmt.Errorf("read identity file: %w", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse identity file: %w", err)
	}
	if user.ID == "" {
		return nil, ErrNoUser
	}
	return &user, nil
}

func (s *Store) write(user *User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create identity directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write identity file: %w", err)
	}
	return nil
}

// GenerateID produces ids of the form user_<9 base36 chars>_<unix millis>.
func GenerateID() string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	chars := make([]byte, 9)
	for i := range chars {
		chars[i] = alphabet[rand.Intn(len(alphabet))]
	}
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "user_" + string(chars) + "_" + millis
}
