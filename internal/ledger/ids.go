package ledger

import "github.com/google/uuid"

// Entity ids carry a type prefix so a bare id is self-describing in logs
// and in the chat transcript.

func NewCustomerID() string { return "c-" + uuid.NewString() }

func NewProductID() string { return "p-" + uuid.NewString() }

func NewTransactionID() string { return "t-" + uuid.NewString() }

func NewSessionID() string { return "s-" + uuid.NewString() }
