package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/illarion/lockpass/internal/crypto"
	"github.com/illarion/lockpass/internal/git"
	"github.com/illarion/lockpass/internal/security"
	"github.com/illarion/lockpass/internal/storage"
)

const (
	DirPermSecure = 0700 // Directory: owner rwx only
)

var (
	ErrNotInitialized = errors.New("lockpass store not initialized")
	ErrAlreadyExists  = errors.New("lockpass store already exists")
	ErrAuthFailed     = errors.New("unable to decrypt store")
	ErrKeyDerivation  = crypto.ErrKeyDerivation
	ErrDuplicateKey   = errors.New("record already exists")
	ErrKeyNotFound    = errors.New("record not found")
	ErrMalformedStore = errors.New("malformed store")
	ErrIO             = errors.New("store I/O failed")
	ErrInvalidName    = errors.New("record name must not be empty")
	ErrSessionClosed  = errors.New("session already closed")
	ErrLocked         = storage.ErrLocked
)

// kdfCost holds Argon2 parameters; always interactive outside tests.
type kdfCost struct {
	time    uint32
	memory  uint32
	threads uint8
}

var interactiveCost = kdfCost{
	time:    crypto.InteractiveTime,
	memory:  crypto.InteractiveMemory,
	threads: crypto.InteractiveThreads,
}

// LockPass is a handle on one store directory
type LockPass struct {
	dir         *security.StoreDir
	files       *storage.Files
	lockTimeout time.Duration
	cost        kdfCost
}

// New creates a new LockPass instance for the store in dir
func New(dir string) (*LockPass, error) {
	storeDir, err := security.New(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return &LockPass{
		dir:         storeDir,
		files:       storage.NewFiles(storeDir),
		lockTimeout: storage.DefaultLockTimeout,
		cost:        interactiveCost,
	}, nil
}

// EnsureDir creates the store directory with owner-only permissions if missing
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, DirPermSecure); err != nil {
		return ioError("create store directory", err)
	}
	return nil
}

// Close releases resources held by the LockPass instance
func (l *LockPass) Close() error {
	if l.dir != nil {
		return l.dir.Close()
	}
	return nil
}

// Dir returns the absolute store directory
func (l *LockPass) Dir() string {
	return l.dir.Path()
}

// IsInitialized reports whether the store ciphertext exists
func (l *LockPass) IsInitialized() (bool, error) {
	exists, err := l.files.Exists()
	if err != nil {
		return false, ioError("check store", err)
	}
	return exists, nil
}

// Init creates a new empty store. Fails with ErrAlreadyExists if one is present.
func (l *LockPass) Init(ctx context.Context, password []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	meta, err := l.openMeta()
	if err != nil {
		return err
	}
	defer meta.Close()

	exists, err := l.IsInitialized()
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}

	sealer, err := l.create(meta, password)
	if err != nil {
		return err
	}
	sealer.Destroy()
	return nil
}

// Open locks the store, creating it first if it does not exist, and loads
// the record set with the given password. The returned session must be closed.
func (l *LockPass) Open(ctx context.Context, password []byte) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, err := l.openMeta()
	if err != nil {
		return nil, err
	}

	exists, err := l.IsInitialized()
	if err != nil {
		meta.Close()
		return nil, err
	}

	// A freshly created store is read back below with the same key
	var created *crypto.Sealer
	if !exists {
		created, err = l.create(meta, password)
		if err != nil {
			meta.Close()
			return nil, err
		}
	}

	session, err := l.load(ctx, meta, password, created)
	if err != nil {
		meta.Close()
		return nil, err
	}
	return session, nil
}

// VerifyPassword checks that password decrypts the store without modifying it
func (l *LockPass) VerifyPassword(ctx context.Context, password []byte) error {
	exists, err := l.IsInitialized()
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotInitialized
	}

	session, err := l.Open(ctx, password)
	if err != nil {
		return err
	}
	return session.Close()
}

// create seals an empty record set under a fresh salt and persists it
func (l *LockPass) create(meta *storage.Storage, password []byte) (*crypto.Sealer, error) {
	kdf, err := crypto.NewKDF()
	if err != nil {
		return nil, fmt.Errorf("failed to create KDF: %w", err)
	}

	sealer, err := l.deriveSealer(kdf.Salt, password)
	if err != nil {
		return nil, err
	}

	plaintext, err := storage.NewRecordSet().Marshal()
	if err != nil {
		sealer.Destroy()
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}

	ciphertext, nonce, err := sealer.Seal(plaintext)
	if err != nil {
		sealer.Destroy()
		return nil, fmt.Errorf("failed to seal store: %w", err)
	}

	if err := l.files.Save(&storage.Blob{Ciphertext: ciphertext, Nonce: nonce, Salt: kdf.Salt}); err != nil {
		sealer.Destroy()
		return nil, ioError("write store", err)
	}

	if err := meta.Initialize(); err != nil {
		sealer.Destroy()
		return nil, ioError("initialize metadata", err)
	}

	return sealer, nil
}

// load reads, decrypts and parses the store. If sealer is non-nil it is
// used instead of deriving the key again.
func (l *LockPass) load(ctx context.Context, meta *storage.Storage, password []byte, sealer *crypto.Sealer) (*Session, error) {
	blob, err := l.files.Load()
	if err != nil {
		if sealer != nil {
			sealer.Destroy()
		}
		if errors.Is(err, storage.ErrMalformedFile) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedStore, err)
		}
		return nil, ioError("read store", err)
	}

	if sealer == nil {
		sealer, err = l.deriveSealer(blob.Salt, password)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		sealer.Destroy()
		return nil, err
	}

	plaintext, err := sealer.Open(blob.Ciphertext, blob.Nonce)
	if err != nil {
		sealer.Destroy()
		return nil, ErrAuthFailed
	}
	defer crypto.ClearBytes(plaintext)

	records, err := storage.UnmarshalRecordSet(plaintext)
	if err != nil {
		sealer.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrMalformedStore, err)
	}

	// Stores written by other tools have no metadata yet
	hasMeta, err := meta.IsInitialized()
	if err != nil {
		sealer.Destroy()
		return nil, ioError("read metadata", err)
	}
	if !hasMeta {
		if err := meta.Initialize(); err != nil {
			sealer.Destroy()
			return nil, ioError("initialize metadata", err)
		}
	}

	return &Session{
		l:       l,
		meta:    meta,
		salt:    blob.Salt,
		sealer:  sealer,
		records: records,
	}, nil
}

// deriveSealer derives the store key and wraps it in a sealer.
// The intermediate key copy is cleared before returning.
func (l *LockPass) deriveSealer(salt, password []byte) (*crypto.Sealer, error) {
	kdf := &crypto.KDF{
		Salt:    salt,
		Time:    l.cost.time,
		Memory:  l.cost.memory,
		Threads: l.cost.threads,
	}

	key, err := kdf.DeriveKey(password)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	return crypto.NewSealer(key)
}

func (l *LockPass) openMeta() (*storage.Storage, error) {
	path, err := l.dir.Abs(storage.MetaFile)
	if err != nil {
		return nil, ioError("open metadata", err)
	}
	meta, err := storage.Open(path, l.lockTimeout)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return nil, ErrLocked
		}
		return nil, ioError("open metadata", err)
	}
	return meta, nil
}

func (l *LockPass) openMetaReadOnly() (*storage.Storage, error) {
	exists, err := l.dir.Exists(storage.MetaFile)
	if err != nil {
		return nil, ioError("open metadata", err)
	}
	if !exists {
		return nil, ErrNotInitialized
	}

	path, err := l.dir.Abs(storage.MetaFile)
	if err != nil {
		return nil, ioError("open metadata", err)
	}
	meta, err := storage.OpenReadOnly(path, l.lockTimeout)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return nil, ErrLocked
		}
		return nil, ioError("open metadata", err)
	}
	return meta, nil
}

// GetVaultID returns the vault id without taking the write lock
func (l *LockPass) GetVaultID() (string, error) {
	meta, err := l.openMetaReadOnly()
	if err != nil {
		return "", err
	}
	defer meta.Close()

	return meta.GetVaultID()
}

// StatusInfo describes a store without decrypting it
type StatusInfo struct {
	Dir         string
	Initialized bool
	Created     time.Time
	Modified    time.Time
	VaultID     string
	Size        int64
	Git         *git.GitStatus
}

// Status reports store state. No password is required.
func (l *LockPass) Status(ctx context.Context) (*StatusInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info := &StatusInfo{Dir: l.Dir()}

	initialized, err := l.IsInitialized()
	if err != nil {
		return nil, err
	}
	info.Initialized = initialized
	if !initialized {
		return info, nil
	}

	if info.Size, err = l.files.Size(); err != nil {
		return nil, ioError("stat store", err)
	}

	meta, err := l.openMetaReadOnly()
	switch {
	case err == nil:
		defer meta.Close()
		info.Created, _ = meta.GetCreated()
		info.Modified, _ = meta.GetModified()
		info.VaultID, _ = meta.GetVaultID()
	case errors.Is(err, ErrNotInitialized):
		// Store files without metadata, e.g. copied from another machine
	default:
		return nil, err
	}

	info.Git, err = git.CheckGitIntegration(l.Dir(), []string{
		storage.CiphertextFile,
		storage.NonceFile,
		storage.SaltFile,
	}, storage.MetaFile)
	if err != nil {
		return nil, err
	}

	return info, nil
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
