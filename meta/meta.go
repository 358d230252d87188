// meta/meta.go
package meta

// ITERATIONS defines the number of MCTS iterations per move.
const ITERATIONS = 500

// GAMES defines the number of self-play games per experiment.
const GAMES = 10

// WORKERS defines the number of games played concurrently.
const WORKERS = 4

// MAX_PLIES caps the length of a self-play game.
const MAX_PLIES = 300

const MODE = "train"

// SERVER_ADDR is where the agent server listens by default.
const SERVER_ADDR = ":8080"
