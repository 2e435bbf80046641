package electionledger

import (
	"log/slog"

	httpadapter "pericles/contexts/election-ops/election-ledger/adapters/http"
	"pericles/contexts/election-ops/election-ledger/adapters/memory"
	"pericles/contexts/election-ops/election-ledger/application"
	"pericles/contexts/election-ops/election-ledger/application/commands"
	"pericles/contexts/election-ops/election-ledger/application/queries"
	"pericles/contexts/election-ops/election-ledger/domain/entities"
	"pericles/contexts/election-ops/election-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Handle  *application.LedgerHandle
	Store   *memory.Store
}

type Dependencies struct {
	Admin  entities.Identity
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	handle := application.NewLedgerHandle(deps.Admin)
	ledgerUseCase := commands.LedgerUseCase{
		Handle: handle,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	resultsUseCase := queries.ResultsUseCase{
		Handle: handle,
	}
	return Module{
		Handler: httpadapter.Handler{
			Ledger:  ledgerUseCase,
			Results: resultsUseCase,
			Logger:  deps.Logger,
		},
		Handle: handle,
	}
}

func NewInMemoryModule(admin entities.Identity, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Admin:  admin,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
