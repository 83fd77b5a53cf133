// Package git provides git integration status checks for lockpass.
//
// Checks performed:
//   - Whether the sealed store files (db.dat, nonce.dat, salt.dat) are
//     tracked together; committing only some of them leaves an
//     undecryptable snapshot
//   - Whether the lockpass.db metadata/lock database is kept out of git
package git
