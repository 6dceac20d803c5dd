// Package cmd provides the CLI commands for the voting services.
//
// # Commands
//
// pollmaker: Runs the pollmaker service. It seeds an anonymized round over
// a configured poll, hands the masked ballot box to the first voter, collects
// mask keys, and tallies once the box returns.
//
//	go run ./cmd/pollmaker --addr=:8090 --options="red,blue,green"
//	go run ./cmd/pollmaker --addr=:8090 --options="red,blue" --budget=1
//
// voter: Runs one voting party. It waits for the ballot box on POST /turn,
// casts its configured vote, submits its mask key to the pollmaker, and
// forwards the box to the next party (or back to the pollmaker if last).
//
//	go run ./cmd/voter --addr=:8091 --pollmaker=http://localhost:8090 \
//	    --next=http://localhost:8092 --vote="blue=1,green=4,purple=9"
//
// demo: Runs a complete round in one process, one loopback HTTP service per
// party, and prints the published outcome.
//
//	go run ./cmd/demo
//	go run ./cmd/demo --votes="red=3;blue=5,red=1;red=2,green=7"
//
// # Persistence
//
// The pollmaker publishes outcomes in memory by default. With the
// --postgres-host flag it persists them to PostgreSQL instead. Voters can
// archive their cast receipts to a local file with --audit-db.
package cmd
