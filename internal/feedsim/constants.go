package feedsim

import "time"

// processingDelay gives the service's async pipeline time to drain before
// the derived state is read back.
const processingDelay = 2 * time.Second
