package repository

// Backend agrupa los repositorios de un mismo adaptador de almacenamiento.
// Close libera conexiones o archivos; puede ser nil.
type Backend struct {
	Name    string
	Users   UserRepository
	Clients ClientRepository
	Reports ReportRepository
	Close   func() error
}

// Shutdown invoca Close si el adaptador lo definió.
func (b *Backend) Shutdown() error {
	if b == nil || b.Close == nil {
		return nil
	}
	return b.Close()
}
