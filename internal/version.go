package internal

// Version is the glossa release version.
const Version = "0.4.0"
