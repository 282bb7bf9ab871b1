package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/workforcehq/records-backend-go/internal/config"
	appHTTP "github.com/workforcehq/records-backend-go/internal/handler/http"
	"github.com/workforcehq/records-backend-go/internal/pkg/ai"
	"github.com/workforcehq/records-backend-go/internal/pkg/crypto"
	"github.com/workforcehq/records-backend-go/internal/pkg/database"
	"github.com/workforcehq/records-backend-go/internal/pkg/jwt"
	"github.com/workforcehq/records-backend-go/internal/pkg/oauth"
	"github.com/workforcehq/records-backend-go/internal/pkg/storage"
	"github.com/workforcehq/records-backend-go/internal/repository/postgresql"
	attendanceService "github.com/workforcehq/records-backend-go/internal/service/attendance"
	auditService "github.com/workforcehq/records-backend-go/internal/service/audit"
	authService "github.com/workforcehq/records-backend-go/internal/service/auth"
	employeeService "github.com/workforcehq/records-backend-go/internal/service/employee"
	leaveService "github.com/workforcehq/records-backend-go/internal/service/leave"
	payrollService "github.com/workforcehq/records-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	var fieldCipher *crypto.FieldCipher
	if cfg.Encryption.FieldKey != "" {
		fieldCipher, err = crypto.New(cfg.Encryption.FieldKey)
	} else {
		slog.Warn("FIELD_ENCRYPTION_KEY not set, using an ephemeral key; encrypted fields will not survive a restart")
		fieldCipher, err = crypto.NewEphemeral()
	}
	if err != nil {
		log.Fatal("Failed to initialize field cipher: ", err)
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleSvc := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL)
	aiClient := ai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Timeout)
	recorder := auditService.NewRecorder(auditRepo)

	authSvc := authService.NewAuthService(transactor, userRepo, jwtRepo, jwtSvc, recorder)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, fieldCipher, fileStorage, aiClient, recorder)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, cfg.Attendance.WorkStart, recorder)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveBalanceRepo, leaveRequestRepo, cfg.Leave.ReasonMinLength, recorder)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, attendanceRepo, fieldCipher, fileStorage, cfg.Payroll.HalfDayWeight, recorder)

	authHandler := appHTTP.NewAuthHandler(jwtSvc, authSvc, googleSvc, cfg.App.CORSOrigin)
	userHandler := appHTTP.NewUserHandler(authSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	auditHandler := appHTTP.NewAuditHandler(recorder)

	router := appHTTP.NewRouter(
		cfg,
		jwtSvc,
		userRepo,
		authHandler,
		userHandler,
		employeeHandler,
		attendanceHandler,
		leaveHandler,
		payrollHandler,
		auditHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
