package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/employee-admin/internal/employee"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin account and sample employees for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			if _, err := db.Exec("DELETE FROM employees"); err != nil {
				log.Fatalf("failed to clear employees: %v", err)
			}
			if _, err := db.Exec("DELETE FROM accounts"); err != nil {
				log.Fatalf("failed to clear accounts: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		adminUsername := "admin"
		var exists int
		row := db.QueryRow("SELECT 1 FROM accounts WHERE username = $1", adminUsername)
		if err := row.Scan(&exists); err == nil {
			fmt.Println("admin account already exists")
		} else {
			if _, err := db.Exec(
				"INSERT INTO accounts (username, password_hash, created_at) VALUES ($1, $2, now())",
				adminUsername, string(hash),
			); err != nil {
				log.Fatalf("failed to insert admin account: %v", err)
			}
			fmt.Println("Seeded admin account:", adminUsername)
		}

		samples := []struct {
			Name        string
			Email       string
			Mobile      string
			Designation string
			Gender      string
			Course      employee.CourseList
		}{
			{"Ann Carter", "ann@x.com", "1234567890", "HR", "F", employee.CourseList{"MCA"}},
			{"Ben Okafor", "ben@x.com", "2345678901", "Manager", "M", employee.CourseList{"BCA", "BSC"}},
			{"Chitra Rao", "chitra@x.com", "3456789012", "Sales", "F", employee.CourseList{"BSC"}},
		}

		for _, s := range samples {
			row := db.QueryRow("SELECT 1 FROM employees WHERE email = $1", s.Email)
			if err := row.Scan(&exists); err == nil {
				continue
			}

			courseValue, err := s.Course.Value()
			if err != nil {
				log.Fatalf("failed to encode course list: %v", err)
			}

			if _, err := db.Exec(
				`INSERT INTO employees (name, email, mobile, designation, gender, course, is_active, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, true, now())`,
				s.Name, s.Email, s.Mobile, s.Designation, s.Gender, courseValue,
			); err != nil {
				log.Fatalf("failed to insert employee %s: %v", s.Email, err)
			}
			fmt.Println("Seeded employee:", s.Email)
		}
	},
}
