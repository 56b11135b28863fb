// Package sessionstore persiste la credencial del proveedor de identidad por sesión de navegador.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/cotizador/internal/application/ports"
)

// Verificar en tiempo de compilación las interfaces.
var (
	_ ports.CredentialStore = (*RedisStore)(nil)
	_ ports.CredentialStore = (*MemoryStore)(nil)
)

const keyPrefix = "cotizador:session:"

// RedisStore guarda la credencial como JSON con TTL; cada Save renueva el TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore construye el store sobre un cliente ya conectado.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Save implementa ports.CredentialStore.
func (s *RedisStore) Save(ctx context.Context, sessionID string, cred *ports.StoredCredential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("sessionstore: serializar: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("sessionstore: guardar: %w", err)
	}
	return nil
}

// Load devuelve (nil, nil) si no hay credencial para la sesión.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*ports.StoredCredential, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("sessionstore: leer: %w", err)
	}
	var cred ports.StoredCredential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("sessionstore: decodificar: %w", err)
	}
	return &cred, nil
}

// Delete implementa ports.CredentialStore. Borrar una clave inexistente no es error.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("sessionstore: borrar: %w", err)
	}
	return nil
}

// MemoryStore alternativa en proceso cuando no hay Redis configurado (desarrollo).
// No sobrevive a un reinicio.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memItem
	now   func() time.Time
}

type memItem struct {
	cred    ports.StoredCredential
	expires time.Time
}

// NewMemoryStore crea el store en memoria.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, items: make(map[string]memItem), now: time.Now}
}

// Save implementa ports.CredentialStore.
func (s *MemoryStore) Save(_ context.Context, sessionID string, cred *ports.StoredCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = memItem{cred: *cred, expires: s.now().Add(s.ttl)}
	return nil
}

// Load implementa ports.CredentialStore.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (*ports.StoredCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[sessionID]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && s.now().After(it.expires) {
		delete(s.items, sessionID)
		return nil, nil
	}
	c := it.cred
	return &c, nil
}

// Delete implementa ports.CredentialStore.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}
