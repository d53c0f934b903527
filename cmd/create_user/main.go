package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

// Creates a user (if missing) in the configured store and prints a session
// token for it, for poking at the API with curl.
func main() {
	name := flag.String("name", "Tester", "user name")
	email := flag.String("email", "tester@example.com", "user email")
	password := flag.String("password", "secret1", "user password")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	var users service.UserStore
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool := db.ConnectPostgres(cfg.DatabaseURL)
		defer pool.Close()
		users = repository.NewPgUserRepository(pool)
	case config.DriverMongo:
		mdb := db.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
		defer mdb.Client().Disconnect(ctx)
		users = repository.NewUserRepository(mdb)
	default:
		log.Fatalf("driver %q keeps no data between runs", cfg.StorageDriver)
	}

	svc := service.NewUserService(users, service.NewSessionManager(cfg.JWTSecret))

	u, err := svc.SignUp(ctx, service.SignUpInput{Name: *name, Email: *email, Password: *password})
	switch {
	case err == nil:
		log.Printf("user created id=%s\n", u.ID)
	case errors.Is(err, domain.ErrConflict):
		log.Printf("user already exists email=%s\n", *email)
	default:
		log.Fatalf("create user failed: %v", err)
	}

	sess, err := svc.SignIn(ctx, service.SignInInput{Email: *email, Password: *password})
	if err != nil {
		log.Fatalf("sign in failed: %v", err)
	}
	log.Printf("signed in id=%s name=%s\n", sess.User.ID, sess.User.Name)
	log.Printf("token=%s expires_at=%s\n", sess.Token, sess.ExpiresAt)
}
