package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceKey(t *testing.T) {
	assert.Equal(t, "balance:acc-1", balanceKey("acc-1"))
}

// A warmed balance entry must expire on its own. The warm SET can land after
// a concurrent writer's post-commit DEL; without an expiry that interleaving
// pins the pre-mutation balance until the account's next mutation.
func TestBalanceCacheWarmExpires(t *testing.T) {
	assert.Positive(t, balanceCacheTTL)
}
