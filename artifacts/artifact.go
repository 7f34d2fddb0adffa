package artifacts

import (
	"maps"
	"sync"

	"github.com/agorasim/agora/intents"
	"github.com/google/uuid"
)

// Artifact is a named unit of content or executable code owned by one
// principal. Mutation goes through Store.Put only.
type Artifact struct {
	ID             string
	Owner          string
	Content        string
	Executable     bool
	Price          int64
	ResourcePolicy intents.ResourcePolicy
}

// Store holds all artifacts of one kernel instance.
type Store struct {
	mu        sync.Mutex
	artifacts map[string]Artifact
}

func NewStore() *Store {
	return &Store{
		artifacts: make(map[string]Artifact),
	}
}

// Put stores an artifact, assigning a fresh id if the writer did not
// name one. The stored artifact is returned.
func (s *Store) Put(artifact Artifact) Artifact {
	if artifact.ID == "" {
		artifact.ID = uuid.NewString()
	}
	if artifact.ResourcePolicy == "" {
		artifact.ResourcePolicy = intents.PolicyCallerPays
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[artifact.ID] = artifact
	return artifact
}

func (s *Store) Get(id string) (Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	artifact, ok := s.artifacts[id]
	return artifact, ok
}

func (s *Store) All() map[string]Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.artifacts)
}
