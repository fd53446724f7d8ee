package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"dms/internal/domain/attendance"
	"dms/internal/domain/audit"
	"dms/internal/domain/auth"
	"dms/internal/domain/employee"
	"dms/internal/domain/ledger"
	"dms/internal/domain/payroll"
	"dms/internal/domain/reports"
	"dms/internal/domain/vehicle"
	"dms/internal/platform/config"
	cryptoutil "dms/internal/platform/crypto"
	"dms/internal/platform/db"
	"dms/internal/platform/email"
	"dms/internal/platform/jobs"
	"dms/internal/platform/metrics"
	"dms/internal/requestctx"
	"dms/internal/transport/http/api"
	attendancehandler "dms/internal/transport/http/handlers/attendance"
	audithandler "dms/internal/transport/http/handlers/audit"
	authhandler "dms/internal/transport/http/handlers/auth"
	employeeshandler "dms/internal/transport/http/handlers/employees"
	ledgerhandler "dms/internal/transport/http/handlers/ledger"
	payrollhandler "dms/internal/transport/http/handlers/payroll"
	reportshandler "dms/internal/transport/http/handlers/reports"
	vehicleshandler "dms/internal/transport/http/handlers/vehicles"
	"dms/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption key invalid: %v", err)
	}
	mailer := email.New(cfg)
	collector := metrics.New()

	authStore := auth.NewStore(pool)
	auditSvc := audit.New(pool)
	employeeStore := employee.NewStore(pool, cryptoSvc)
	attendanceStore := attendance.NewStore(pool)
	ledgerStore := ledger.NewStore(pool)
	payrollStore := payroll.NewStore(pool)

	attendanceSvc := attendance.NewService(attendanceStore, payrollStore)
	ledgerSvc := ledger.NewService(ledgerStore)
	payrollSvc := payroll.NewService(payrollStore, employeeStore, attendanceStore, ledgerStore, mailer, cfg)
	vehicleSvc := vehicle.NewService(vehicle.NewStore(pool))
	reportsSvc := reports.NewService(reports.NewStore(pool))

	jobsSvc := jobs.New(pool, cfg, payrollSvc)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), requestctx.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, cfg.JWTSecret, auditSvc)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/refresh", authHandler.HandleRefresh)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/request-reset", authHandler.HandleRequestReset)
		r.Post("/auth/reset", authHandler.HandleReset)
		r.Get("/auth/me", authHandler.HandleMe)

		admin := middleware.RequirePermission(auth.PermUsersAdmin, authStore)
		r.With(admin).Get("/admin/users", authHandler.HandleListUsers)
		r.With(admin).Post("/admin/users", authHandler.HandleCreateUser)
		r.With(admin).Put("/admin/users/{id}/role", authHandler.HandleUpdateUserRole)
		r.With(admin).Put("/admin/users/{id}/status", authHandler.HandleUpdateUserStatus)
		r.With(admin).Get("/admin/sessions", authHandler.HandleListSessions)

		employeesHandler := employeeshandler.NewHandler(employeeStore, auditSvc)
		empRead := middleware.RequirePermission(auth.PermEmployeesRead, authStore)
		empWrite := middleware.RequirePermission(auth.PermEmployeesWrite, authStore)
		r.With(empRead).Get("/employees", employeesHandler.HandleList)
		r.With(empRead).Get("/employees/{id}", employeesHandler.HandleGet)
		r.With(empWrite).Post("/employees", employeesHandler.HandleCreate)
		r.With(empWrite).Put("/employees/{id}", employeesHandler.HandleUpdate)
		r.With(empWrite).Put("/employees/{id}/status", employeesHandler.HandleSetStatus)

		attendanceHandler := attendancehandler.NewHandler(attendanceSvc, auditSvc)
		attRead := middleware.RequirePermission(auth.PermAttendanceRead, authStore)
		attWrite := middleware.RequirePermission(auth.PermAttendanceWrite, authStore)
		r.With(attWrite).Post("/attendance", attendanceHandler.HandleRecord)
		r.With(attWrite).Post("/attendance/import", attendanceHandler.HandleImport)
		r.With(attRead).Get("/employees/{id}/attendance", attendanceHandler.HandleListForPeriod)
		r.With(attWrite).Delete("/employees/{id}/attendance", attendanceHandler.HandleDelete)

		ledgerHandler := ledgerhandler.NewHandler(ledgerSvc, auditSvc)
		ledgerRead := middleware.RequirePermission(auth.PermLedgerRead, authStore)
		ledgerWrite := middleware.RequirePermission(auth.PermLedgerWrite, authStore)
		r.With(ledgerWrite).Post("/transactions", ledgerHandler.HandleAppend)
		r.With(ledgerRead).Get("/employees/{id}/transactions", ledgerHandler.HandleHistory)
		r.With(ledgerRead).Get("/employees/{id}/advance", ledgerHandler.HandleAdvanceStatus)

		payrollHandler := payrollhandler.NewHandler(payrollSvc, jobsSvc, auditSvc, collector)
		payRead := middleware.RequirePermission(auth.PermPayrollRead, authStore)
		payRun := middleware.RequirePermission(auth.PermPayrollRun, authStore)
		payClose := middleware.RequirePermission(auth.PermPayrollClose, authStore)
		r.With(payRead).Get("/employees/{id}/payroll", payrollHandler.HandleCompute)
		r.With(payRead).Get("/employees/{id}/payslip", payrollHandler.HandlePayslip)
		r.With(payRun).Post("/employees/{id}/payslip/email", payrollHandler.HandleEmailPayslip)
		r.With(payRun).Post("/payroll/run", payrollHandler.HandleRun)
		r.With(payRead).Get("/payroll/records", payrollHandler.HandleRecords)
		r.With(payRead).Get("/payroll/periods", payrollHandler.HandleListPeriods)
		r.With(payClose).Post("/payroll/periods/close", payrollHandler.HandleClose)
		r.With(payClose).Post("/payroll/periods/reopen", payrollHandler.HandleReopen)

		vehiclesHandler := vehicleshandler.NewHandler(vehicleSvc, auditSvc)
		vehRead := middleware.RequirePermission(auth.PermVehiclesRead, authStore)
		vehWrite := middleware.RequirePermission(auth.PermVehiclesWrite, authStore)
		vehSell := middleware.RequirePermission(auth.PermVehiclesSell, authStore)
		r.With(vehRead).Get("/vehicles", vehiclesHandler.HandleList)
		r.With(vehRead).Get("/vehicles/{id}", vehiclesHandler.HandleGet)
		r.With(vehWrite).Post("/vehicles", vehiclesHandler.HandlePurchase)
		r.With(vehWrite).Post("/vehicles/{id}/book", vehiclesHandler.HandleBook)
		r.With(vehWrite).Post("/vehicles/{id}/unbook", vehiclesHandler.HandleCancelBooking)
		r.With(vehSell).Post("/vehicles/{id}/sell", vehiclesHandler.HandleSell)
		r.With(vehWrite).Post("/vehicles/{id}/maintenance", vehiclesHandler.HandleOpenMaintenance)
		r.With(vehRead).Get("/vehicles/{id}/maintenance", vehiclesHandler.HandleListMaintenance)
		r.With(vehWrite).Post("/maintenance/{jobID}/close", vehiclesHandler.HandleCloseMaintenance)

		reportsHandler := reportshandler.NewHandler(reportsSvc)
		repRead := middleware.RequirePermission(auth.PermReportsRead, authStore)
		r.With(repRead).Get("/reports/payroll-register", reportsHandler.HandlePayrollRegister)
		r.With(repRead).Get("/reports/sales-summary", reportsHandler.HandleSalesSummary)
		r.With(repRead).Get("/reports/headcount", reportsHandler.HandleHeadcount)
		r.With(repRead).Get("/reports/job-runs", reportsHandler.HandleJobRuns)

		auditHandler := audithandler.NewHandler(auditSvc)
		auditRead := middleware.RequirePermission(auth.PermAuditRead, authStore)
		r.With(auditRead).Get("/audit/events", auditHandler.HandleList)
		r.With(auditRead).Get("/audit/events/export", auditHandler.HandleExport)
		r.With(auditRead).Get("/activity", auditHandler.HandleActivity)
	})

	log.Printf("DMS server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
