package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("TRADEDESK_TEST_MODE") == "" {
			_ = os.Setenv("TRADEDESK_TEST_MODE", "1")
		}
	})
}
