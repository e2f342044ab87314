package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"collector/config"
	"collector/database"
	"collector/events"
	"collector/repository"
	"collector/service"
)

// App holds the wired application stack shared by the run loop and the
// one-shot subcommands
type App struct {
	DB         *database.DB
	Bus        *events.Bus
	Allocation service.AllocationService
	BillPay    service.BillPayService
	Reports    service.ReportService
}

// NewApp connects to the database and wires the full service stack
func NewApp(ctx context.Context) (*App, error) {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	registerEventLogging(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	allocation := service.NewAllocationService(uowFactory, cfg.DefaultCurrency)
	billPay := service.NewBillPayService(uowFactory, allocation, cfg.DefaultCurrency)
	reports := service.NewReportService(
		repository.NewTargetRepository(db),
		repository.NewReportRepository(db),
		repository.NewLoanRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewChargeRepository(db),
		repository.NewActivityRepository(db),
	)

	return &App{
		DB:         db,
		Bus:        eventBus,
		Allocation: allocation,
		BillPay:    billPay,
		Reports:    reports,
	}, nil
}

// Close releases the application's resources
func (a *App) Close() {
	a.DB.Close()
}

// Run initializes the application and blocks until the context is cancelled
func Run(ctx context.Context) error {
	log.Println("Starting collection service...")

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	log.Println("Database connection established, services initialized")

	log.Printf("Collection service is running in %s mode...", config.Get().Environment)
	<-ctx.Done()

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// registerEventLogging subscribes audit logging for allocation events
func registerEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypePaymentRecorded, func(ctx context.Context, e events.Event) {
		ev := e.(events.PaymentRecordedEvent)
		log.Printf("Payment recorded: loan=%d txn=%d amount=%s newDebt=%s online=%v",
			ev.LoanID, ev.TransactionID, ev.Amount, ev.NewDebt, ev.Online)
	})
	bus.Subscribe(events.EventTypeChargeApplied, func(ctx context.Context, e events.Event) {
		ev := e.(events.ChargeAppliedEvent)
		log.Printf("Charge applied: loan=%d txn=%d amount=%s newDebt=%s",
			ev.LoanID, ev.TransactionID, ev.Amount, ev.NewDebt)
	})
	bus.Subscribe(events.EventTypeLoanClosed, func(ctx context.Context, e events.Event) {
		ev := e.(events.LoanClosedEvent)
		log.Printf("Loan closed: loan=%d txn=%d oldStatus=%d online=%v",
			ev.LoanID, ev.TransactionID, ev.OldStatusID, ev.Online)
	})
}
