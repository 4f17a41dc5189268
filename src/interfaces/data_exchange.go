package interfaces

// -----------------------------------------------------------------------------
// IDataExchanger defines the interface for pushing data to connected clients.
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast pushes a message to every connected client.
	Broadcast(payload interface{})

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
