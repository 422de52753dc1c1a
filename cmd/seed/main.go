package main

import (
	"context"
	"flag"
	"fmt"

	"gorm.io/gorm"

	"educenter/internal/config"
	"educenter/internal/database"
	"educenter/internal/domain"
	"educenter/internal/logger"
	"educenter/internal/modules/auth"
	"educenter/internal/modules/billing"
	"educenter/internal/modules/catalog"
	"educenter/internal/modules/realtime"
	"educenter/internal/modules/schedule"
	"educenter/internal/repository"
)

var clean = flag.Bool("clean", false, "delete existing rows before seeding")

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, "text")
	log := logger.Get()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", "error", err)
	}
	if *clean {
		if err := wipe(db); err != nil {
			logger.Fatal("cleanup failed", "error", err)
		}
	}

	ctx := context.Background()
	if err := seed(ctx, cfg, db); err != nil {
		logger.Fatal("seed failed", "error", err)
	}
	log.Info("seed completed", "admin", "admin@educenter.local / admin123", "staff", "staff@educenter.local / staff123")
}

func wipe(db *gorm.DB) error {
	// child tables first
	for _, table := range []string{"payments", "invoice_items", "invoices", "class_sessions", "employees", "rooms", "users", "centers"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}
	return nil
}

func seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	log := logger.Get()
	loc := cfg.Location()

	centers := repository.NewCenterRepository(db)
	if _, err := centers.GetByName(ctx, "Sunrise English Center"); err == nil {
		log.Info("center already seeded, use -clean to reseed")
		return nil
	}

	center := &domain.Center{Name: "Sunrise English Center", Timezone: cfg.DefaultTimezone}
	if err := centers.Create(ctx, center); err != nil {
		return fmt.Errorf("create center: %w", err)
	}

	users := repository.NewUserRepository(db)
	var admin *domain.User
	for _, u := range []struct {
		email, password, name string
		role                  domain.UserRole
	}{
		{"admin@educenter.local", "admin123", "Administrator", domain.RoleAdmin},
		{"staff@educenter.local", "staff123", "Front Desk", domain.RoleStaff},
	} {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := &domain.User{CenterID: center.ID, Email: u.email, PasswordHash: hash, Role: u.role, Name: u.name}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user %s: %w", u.email, err)
		}
		if u.role == domain.RoleAdmin {
			admin = user
		}
	}
	actor := domain.Actor{UserID: admin.ID, CenterID: center.ID, Role: domain.RoleAdmin}

	catalogSvc := catalog.NewService(repository.NewRoomRepository(db), repository.NewEmployeeRepository(db))
	var rooms []int64
	for i, name := range []string{"Room 101", "Room 102", "Lab"} {
		r, err := catalogSvc.CreateRoom(ctx, actor, catalog.CreateRoomRequest{Name: name, Capacity: 12 + i*4})
		if err != nil {
			return err
		}
		rooms = append(rooms, r.ID)
	}

	var teachers []int64
	for _, name := range []string{"Nguyen Thi Lan", "David Brown"} {
		e, err := catalogSvc.CreateEmployee(ctx, actor, catalog.CreateEmployeeRequest{Name: name, Kind: domain.EmployeeTeacher})
		if err != nil {
			return err
		}
		teachers = append(teachers, e.ID)
	}
	assistant, err := catalogSvc.CreateEmployee(ctx, actor, catalog.CreateEmployeeRequest{Name: "Tran Minh", Kind: domain.EmployeeAssistant})
	if err != nil {
		return err
	}

	hub := realtime.NewHub()
	defer hub.Close()
	scheduleSvc := schedule.NewService(repository.NewSessionRepository(db), catalogSvc, hub, loc)

	var inputs []schedule.SessionInput
	for day := 10; day <= 14; day++ {
		date := fmt.Sprintf("2025-03-%02d", day)
		inputs = append(inputs,
			schedule.SessionInput{ClassName: "Starters A", Date: date, StartTime: "08:00", EndTime: "09:30",
				TeacherID: teachers[0], AssistantID: &assistant.ID, RoomID: &rooms[0]},
			schedule.SessionInput{ClassName: "Movers B", Date: date, StartTime: "09:30", EndTime: "11:00",
				TeacherID: teachers[0], RoomID: &rooms[0]},
			schedule.SessionInput{ClassName: "IELTS Evening", Date: date, StartTime: "18:00", EndTime: "20:00",
				TeacherID: teachers[1], RoomID: &rooms[1]},
		)
	}
	sessions, err := scheduleSvc.CreateSessions(ctx, actor, schedule.CreateSessionsRequest{Timezone: cfg.DefaultTimezone, Sessions: inputs})
	if err != nil {
		return fmt.Errorf("create sessions: %w", err)
	}

	billingSvc := billing.NewService(repository.NewInvoiceRepository(db), nil, loc)
	inv, err := billingSvc.CreateInvoice(ctx, actor, billing.CreateInvoiceRequest{
		StudentName: "Le Hoang Nam",
		BillToPhone: "+84901234567",
		DueDate:     "2025-03-31",
		Issue:       true,
		Items: []billing.LineItemInput{
			{Description: "Starters A tuition, March", Quantity: 1, UnitPrice: 2400000},
			{Description: "Workbook", Quantity: 1, UnitPrice: 180000},
		},
	})
	if err != nil {
		return err
	}
	if _, err := billingSvc.RecordPayment(ctx, actor, inv.ID, billing.RecordPaymentRequest{
		Amount: 1000000, Method: domain.PaymentBankTransfer, PaidOn: "2025-03-05", Reference: "VCB-0001",
	}); err != nil {
		return err
	}

	log.Info("seeded",
		"center_id", center.ID, "rooms", len(rooms), "teachers", len(teachers),
		"sessions", len(sessions), "invoice", inv.Number)
	return nil
}
