package domain

// KeyPrefix namespaces every key this service owns in the shared store.
const KeyPrefix = "catalog:"
