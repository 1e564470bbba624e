package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	MongoURI              string
	DBName                string
	JWTSecret             string
	JWTExpiresHours       int
	MaxBorrowedBooks      int
	LedgerConflictRetries int
	LedgerLockWaitMs      int
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var jwtExpiresHours int
	if val := os.Getenv("JWT_EXPIRES_HOURS"); val != "" {
		_, err := fmt.Sscanf(val, "%d", &jwtExpiresHours)
		if err != nil {
			log.Fatalf("Invalid JWT_EXPIRES_HOURS: %v", err)
		}
	}
	if jwtExpiresHours == 0 {
		jwtExpiresHours = 24
	}

	var maxBorrowed, conflictRetries, lockWaitMs int

	fmt.Sscanf(os.Getenv("MAX_BORROWED_BOOKS"), "%d", &maxBorrowed)
	fmt.Sscanf(os.Getenv("LEDGER_CONFLICT_RETRIES"), "%d", &conflictRetries)
	fmt.Sscanf(os.Getenv("LEDGER_LOCK_WAIT_MS"), "%d", &lockWaitMs)

	if maxBorrowed == 0 {
		maxBorrowed = 5
	}
	if conflictRetries == 0 {
		conflictRetries = 3
	}
	if lockWaitMs == 0 {
		lockWaitMs = 2000
	}

	return Config{
		Port:                  os.Getenv("PORT"),
		MongoURI:              os.Getenv("MONGO_URI"),
		DBName:                os.Getenv("DB_NAME"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		JWTExpiresHours:       jwtExpiresHours,
		MaxBorrowedBooks:      maxBorrowed,
		LedgerConflictRetries: conflictRetries,
		LedgerLockWaitMs:      lockWaitMs,
	}
}
