package checkout

const (
	TopicTransactionCreated = "pos.transaction.created"
	TopicStockRejected      = "pos.stock.rejected"
)

// Partition key = transaction id, so all events for one transaction
// keep their order.
func PartitionKey(transactionID string) []byte { return []byte(transactionID) }
