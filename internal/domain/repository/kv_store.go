package repository

// KeyValueStore define el puerto de persistencia clave-valor del cliente,
// el análogo del local storage del navegador (DIP: la implementación vive
// en infraestructura y los tests usan una versión en memoria).
type KeyValueStore interface {
	// Get devuelve el valor de la clave, o "" si no existe.
	Get(key string) string
	Set(key, value string) error
	Delete(key string) error
}
