package handlers

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	AuthHandler *AuthHandler
	UserHandler *UserHandler
	FileHandler *FileHandler
}
