// Command seed loads the initial catalog: an admin user, the service menu,
// and three barbers working Mon-Sat 09:00-12:00 and 13:00-18:00. Safe to
// run repeatedly.
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/barberbook/barberbook/internal/booking"
	"github.com/barberbook/barberbook/internal/storage"
	"github.com/barberbook/barberbook/libs/config"
	"github.com/barberbook/barberbook/libs/db"
	"github.com/barberbook/barberbook/libs/runtime"
	"github.com/barberbook/barberbook/migrations"
)

func main() {
	logger := runtime.NewLogger("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		logger.Error("migrations failed", "err", err)
		panic(err)
	}

	adminCPF := config.String("SEED_ADMIN_CPF", "12345678909")
	adminPassword := config.String("SEED_ADMIN_PASSWORD", "Admin@123")
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, cpf, password_hash, role)
		VALUES ($1, 'Administrador', $2, $3, 'ADMIN')
		ON CONFLICT (cpf) DO UPDATE
		SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`,
		uuid.NewString(), adminCPF, string(hash))
	if err != nil {
		logger.Error("admin seed failed", "err", err)
		panic(err)
	}
	logger.Info("admin user ready", "cpf", adminCPF)

	services := []booking.Service{
		{Code: "HAIRCUT", Name: "Corte de Cabelo", DurationMin: 60, PriceCents: 4500},
		{Code: "BEARD", Name: "Barba", DurationMin: 30, PriceCents: 2500},
		{Code: "COMBO", Name: "Cabelo + Barba", DurationMin: 90, PriceCents: 6500},
	}
	for _, s := range services {
		_, err := pool.Exec(ctx, `
			INSERT INTO services (code, name, duration_min, price_cents, active)
			VALUES ($1, $2, $3, $4, true)
			ON CONFLICT (code) DO UPDATE
			SET name = EXCLUDED.name, duration_min = EXCLUDED.duration_min,
			    price_cents = EXCLUDED.price_cents, active = true`,
			s.Code, s.Name, s.DurationMin, s.PriceCents)
		if err != nil {
			logger.Error("service seed failed", "code", s.Code, "err", err)
			panic(err)
		}
	}
	logger.Info("services ready", "count", len(services))

	var shifts []booking.Shift
	for wd := 1; wd <= 6; wd++ {
		shifts = append(shifts,
			booking.Shift{Weekday: wd, StartMin: 9 * 60, EndMin: 12 * 60},
			booking.Shift{Weekday: wd, StartMin: 13 * 60, EndMin: 18 * 60},
		)
	}

	shiftRepo := storage.NewShiftRepository(pool)
	for _, name := range []string{"Tom Marelli", "Dean Scott", "Melissa Bart"} {
		var barberID string
		err := pool.QueryRow(ctx, `
			INSERT INTO barbers (name, active)
			VALUES ($1, true)
			ON CONFLICT (name) DO UPDATE SET active = true
			RETURNING id::text`, name).Scan(&barberID)
		if err != nil {
			logger.Error("barber seed failed", "name", name, "err", err)
			panic(err)
		}
		if err := shiftRepo.ReplaceAll(ctx, barberID, shifts); err != nil {
			logger.Error("shift seed failed", "name", name, "err", err)
			panic(err)
		}
		logger.Info("barber ready", "name", name, "shifts", len(shifts))
	}

	logger.Info("seed complete")
}
