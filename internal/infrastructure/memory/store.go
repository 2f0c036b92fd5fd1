// Package memory implementa los repositorios y el TxRunner sobre un almacén en memoria.
// Sirve como respaldo de desarrollo cuando no hay PostgreSQL (APP_STORAGE=memory) y como
// doble de pruebas de los casos de uso.
//
// Una transacción toma el mutex del almacén durante todo el callback, por lo que las
// transacciones quedan serializadas; si el callback falla se restaura la copia tomada al inicio.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

type state struct {
	users        map[string]entity.User    // por ID
	devices      map[string]entity.Device  // por DeviceID
	accounts     map[string]entity.Account // por ID
	transactions []entity.Transaction      // orden de inserción
	sessions     map[string]entity.Session // por ID
}

func newState() *state {
	return &state{
		users:    make(map[string]entity.User),
		devices:  make(map[string]entity.Device),
		accounts: make(map[string]entity.Account),
		sessions: make(map[string]entity.Session),
	}
}

func (st *state) clone() *state {
	out := newState()
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.devices {
		out.devices[k] = v
	}
	for k, v := range st.accounts {
		out.accounts[k] = v
	}
	for k, v := range st.sessions {
		out.sessions[k] = v
	}
	out.transactions = append(make([]entity.Transaction, 0, len(st.transactions)), st.transactions...)
	return out
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: make(map[string]error)}
}

// FailOn hace que la operación op (ej. "transaction.Create") devuelva err.
// Con err nil se quita el fallo. No debe llamarse dentro de una transacción.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// exec corre fn sobre el estado. Fuera de una tx toma el mutex; dentro, el TxRunner ya lo tiene.
func (s *Store) exec(ctx context.Context, inTx bool, op string, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if err := s.faults[op]; err != nil {
		return err
	}
	return fn(s.st)
}

// TxRunner ejecuta callbacks de forma atómica sobre el Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// RunLedger transacción del motor de saldos.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&AccountRepo{s: r.store, inTx: true}, &TransactionRepo{s: r.store, inTx: true})
	})
}

// RunDevices transacción sobre dispositivos y sesiones.
func (r *TxRunner) RunDevices(ctx context.Context, fn func(
	deviceRepo repository.DeviceRepository,
	sessionRepo repository.SessionRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&DeviceRepo{s: r.store, inTx: true}, &SessionRepo{s: r.store, inTx: true})
	})
}

// RunRegistration transacción del registro.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	deviceRepo repository.DeviceRepository,
	accountRepo repository.AccountRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&UserRepo{s: r.store, inTx: true}, &DeviceRepo{s: r.store, inTx: true}, &AccountRepo{s: r.store, inTx: true})
	})
}
