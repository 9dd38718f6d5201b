// Command hash-generator produces a bcrypt digest for a password, for
// seeding accounts directly in the database.
//
// Usage:
//
//	hash-generator [-cost N] <password>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 0, "bcrypt cost (0 selects the bcrypt default)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-cost N] <password>\n", os.Args[0])
		os.Exit(2)
	}
	password := flag.Arg(0)

	if err := domain.ValidatePassword(password); err != nil {
		fmt.Fprintf(os.Stderr, "invalid password: %v\n", err)
		os.Exit(1)
	}

	hash, err := auth.NewBcryptHasher(*cost).Hash(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
