package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/azulcreative/server/internal/adapter/repo"
	"github.com/azulcreative/server/internal/domain"
)

// usertool manages account lifecycle from the command line: approving
// pending registrations, blocking accounts, promoting admins, and listing
// everyone. Registration is public but accounts start pending, so this is
// the operator side of that flow.
func main() {
	var (
		listFlag     bool
		usernameFlag string
		statusFlag   string
		roleFlag     string
		deleteFlag   bool
	)

	flag.BoolVar(&listFlag, "list", false, "list all users")
	flag.StringVar(&usernameFlag, "username", "", "username to operate on")
	flag.StringVar(&statusFlag, "status", "", "set account status (active, pending, blocked)")
	flag.StringVar(&roleFlag, "role", "", "set account role (user, admin)")
	flag.BoolVar(&deleteFlag, "delete", false, "delete the account and its creatives")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	users := repo.NewUserRepository(pool)

	opCtx, cancelOp := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelOp()

	if listFlag {
		listUsers(opCtx, users)
		return
	}

	username := strings.TrimSpace(usernameFlag)
	if username == "" {
		exitWithError(errors.New("-username is required unless -list is given"))
	}

	user, err := users.GetByUsername(opCtx, username)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load user %q: %w", username, err))
	}

	if deleteFlag {
		if err := users.Delete(opCtx, user.ID); err != nil {
			exitWithError(fmt.Errorf("failed to delete user: %w", err))
		}
		fmt.Printf("user %s deleted\n", username)
		return
	}

	if statusFlag == "" && roleFlag == "" {
		exitWithError(errors.New("nothing to do: pass -status, -role, -delete or -list"))
	}

	if statusFlag != "" {
		status := domain.UserStatus(strings.ToLower(strings.TrimSpace(statusFlag)))
		switch status {
		case domain.UserStatusActive, domain.UserStatusPending, domain.UserStatusBlocked:
		default:
			exitWithError(fmt.Errorf("unsupported status %q", statusFlag))
		}
		if err := users.UpdateStatus(opCtx, user.ID, status); err != nil {
			exitWithError(fmt.Errorf("failed to update status: %w", err))
		}
		fmt.Printf("user %s status set to %s\n", username, status)
	}

	if roleFlag != "" {
		role := domain.UserRole(strings.ToLower(strings.TrimSpace(roleFlag)))
		switch role {
		case domain.UserRoleUser, domain.UserRoleAdmin:
		default:
			exitWithError(fmt.Errorf("unsupported role %q", roleFlag))
		}
		if err := users.UpdateRole(opCtx, user.ID, role); err != nil {
			exitWithError(fmt.Errorf("failed to update role: %w", err))
		}
		fmt.Printf("user %s role set to %s\n", username, role)
	}
}

func listUsers(ctx context.Context, users domain.UserStore) {
	all, err := users.List(ctx)
	if err != nil {
		exitWithError(fmt.Errorf("failed to list users: %w", err))
	}
	for _, u := range all {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Role, u.Status, u.CreatedAt.Format(time.RFC3339))
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
