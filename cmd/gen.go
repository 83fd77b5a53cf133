package cmd

import (
	"fmt"

	"github.com/illarion/lockpass/internal/core"
)

// Generate prints a random password of the given length.
// No store or password is needed.
func Generate(length int) {
	policy := core.DefaultPolicy
	policy.Length = length

	password, err := core.GeneratePassword(policy)
	if err != nil {
		HandleError(err)
	}
	fmt.Println(password)
}
