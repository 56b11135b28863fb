// Package identity contiene piezas comunes a los proveedores de identidad.
package identity

import (
	"context"
	"sync"

	"github.com/jhoicas/cotizador/internal/application/ports"
)

// Notifier lista de suscriptores a los cambios de sesión de un proveedor.
// Los callbacks se invocan sin locks tomados: pueden volver a llamar al proveedor.
type Notifier struct {
	mu   sync.Mutex
	next int
	fns  map[int]ports.AuthStateListener
}

// Subscribe registra fn y la invoca de inmediato con current.
func (n *Notifier) Subscribe(fn ports.AuthStateListener, current *ports.Identity) (unsubscribe func()) {
	n.mu.Lock()
	if n.fns == nil {
		n.fns = make(map[int]ports.AuthStateListener)
	}
	id := n.next
	n.next++
	n.fns[id] = fn
	n.mu.Unlock()

	fn(context.Background(), copyIdentity(current))

	return func() {
		n.mu.Lock()
		delete(n.fns, id)
		n.mu.Unlock()
	}
}

// Emit notifica a todos los suscriptores. id == nil = sesión cerrada.
func (n *Notifier) Emit(ctx context.Context, id *ports.Identity) {
	n.mu.Lock()
	fns := make([]ports.AuthStateListener, 0, len(n.fns))
	for _, fn := range n.fns {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(ctx, copyIdentity(id))
	}
}

// Len número de suscriptores.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.fns)
}

func copyIdentity(id *ports.Identity) *ports.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
