package store_test

import (
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	lumedb "github.com/wizardsarehere/LumeDB"
	"github.com/wizardsarehere/LumeDB/citest/testutil"
	"github.com/wizardsarehere/LumeDB/event"
)

var _ = Describe("Store", func() {
	var (
		fs    afero.Fs
		store *lumedb.Store
	)

	newStore := func(opts lumedb.Options) *lumedb.Store {
		opts.FS = fs
		if opts.Folder == "" {
			opts.Folder = "db"
		}
		s, err := lumedb.New(opts)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		store = nil
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("Document Lifecycle", func() {
		It("bootstraps an empty document with both files on disk", func() {
			store = newStore(lumedb.Options{})

			Expect(store.All()).To(BeEmpty())

			mainData, err := afero.ReadFile(fs, store.MainPath())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(mainData)).To(MatchJSON(`{}`))

			backupData, err := afero.ReadFile(fs, store.BackupPath())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(backupData)).To(MatchJSON(`{}`))
		})

		It("reloads persisted data after a close and reopen", func() {
			store = newStore(lumedb.Options{})
			_, err := store.Set("users.alice.age", 30)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Close()).To(Succeed())

			store = newStore(lumedb.Options{})
			value, ok := store.Get("users.alice.age")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(float64(30)))
		})

		It("recovers from the backup when the main file is corrupted", func() {
			store = newStore(lumedb.Options{})
			_, err := store.Set("answer", 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Close()).To(Succeed())

			mainPath := store.MainPath()
			Expect(afero.WriteFile(fs, mainPath, []byte("{broken"), 0644)).To(Succeed())

			store = newStore(lumedb.Options{})
			value, ok := store.Get("answer")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(float64(42)))

			// The recovered document is written back to the main file.
			mainData, err := afero.ReadFile(fs, mainPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(mainData)).To(MatchJSON(`{"answer": 42}`))
		})

		It("starts empty when both files are corrupted", func() {
			Expect(afero.WriteFile(fs, "db/data.json", []byte("not json"), 0644)).To(Succeed())
			Expect(afero.WriteFile(fs, "db/data.backup.json", []byte("also not"), 0644)).To(Succeed())

			store = newStore(lumedb.Options{})
			Expect(store.All()).To(BeEmpty())
		})
	})

	Describe("Path Operations", func() {
		BeforeEach(func() {
			store = newStore(lumedb.Options{})
		})

		It("stores and retrieves nested values", func() {
			_, err := store.Set("users.alice", map[string]any{"age": 30, "admin": true})
			Expect(err).NotTo(HaveOccurred())

			value, ok := store.Get("users.alice.age")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(float64(30)))

			Expect(store.Has("users.alice.admin")).To(BeTrue())
			Expect(store.Has("users.bob")).To(BeFalse())
		})

		It("deletes values and leaves empty parents by default", func() {
			_, err := store.Set("a.b.c", 1)
			Expect(err).NotTo(HaveOccurred())

			removed, err := store.Delete("a.b.c")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())

			Expect(store.Has("a.b.c")).To(BeFalse())
			Expect(store.Has("a.b")).To(BeTrue())
		})

		It("reports deletes of missing paths without touching the document", func() {
			removed, err := store.Delete("never.set")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeFalse())
		})

		It("lists keys and finds values by pattern", func() {
			_, err := store.Set("users.alice.age", 30)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Set("users.bob.age", 25)
			Expect(err).NotTo(HaveOccurred())

			keys, ok := store.Keys("users")
			Expect(ok).To(BeTrue())
			Expect(keys).To(ConsistOf("alice", "bob"))

			matches, err := store.Find("users.*.age")
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(HaveLen(2))
			Expect(matches).To(HaveKeyWithValue("users.alice.age", float64(30)))
			Expect(matches).To(HaveKeyWithValue("users.bob.age", float64(25)))
		})
	})

	Describe("Pruning", func() {
		It("prunes empty parents when enabled", func() {
			store = newStore(lumedb.Options{NoBlankData: true})

			_, err := store.Set("a.b.c", 1)
			Expect(err).NotTo(HaveOccurred())

			removed, err := store.Delete("a.b.c")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())

			Expect(store.All()).To(BeEmpty())
		})
	})

	Describe("Sequences", func() {
		BeforeEach(func() {
			store = newStore(lumedb.Options{})
		})

		It("builds arrays with push and trims them with unpush", func() {
			_, err := store.Push("tags", "go")
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Push("tags", "json")
			Expect(err).NotTo(HaveOccurred())
			seq, err := store.Push("tags", "go")
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(HaveLen(3))

			seq, err = store.Unpush("tags", "go")
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(Equal([]any{"json"}))
		})

		It("replaces and removes elements by position", func() {
			for _, v := range []string{"a", "b", "c"} {
				_, err := store.Push("list", v)
				Expect(err).NotTo(HaveOccurred())
			}

			seq, err := store.SetByPriority("list", "B", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(Equal([]any{"a", "B", "c"}))

			seq, err = store.DelByPriority("list", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(Equal([]any{"B", "c"}))
		})

		It("rejects sequence operations on non-arrays", func() {
			_, err := store.Set("scalar", 1)
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Push("scalar", 2)
			Expect(err).To(MatchError(lumedb.ErrNotSequence))
		})

		It("rejects positions outside the sequence", func() {
			_, err := store.Push("list", "only")
			Expect(err).NotTo(HaveOccurred())

			_, err = store.SetByPriority("list", "x", 2)
			Expect(err).To(MatchError(lumedb.ErrPriorityOutOfRange))
		})
	})

	Describe("Snapshots", func() {
		It("writes a manual backup that matches the document", func() {
			store = newStore(lumedb.Options{})
			_, err := store.Set("kept", true)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Backup()).To(Succeed())

			backupData, err := afero.ReadFile(fs, store.BackupPath())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(backupData)).To(MatchJSON(`{"kept": true}`))
		})

		It("restores an externally replaced backup", func() {
			store = newStore(lumedb.Options{})
			_, err := store.Set("current", 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(afero.WriteFile(fs, store.BackupPath(), []byte(`{"older": true}`), 0644)).To(Succeed())

			Expect(store.Restore()).To(Succeed())
			Expect(store.Has("current")).To(BeFalse())
			Expect(store.Has("older")).To(BeTrue())
		})

		It("takes scheduled backups on the configured interval", func() {
			store = newStore(lumedb.Options{BackupInterval: 20 * time.Millisecond})

			var mu sync.Mutex
			scheduled := 0
			unsubscribe := store.Events().Subscribe(event.BackupCreated, func(ev event.Event) {
				data, ok := ev.Data.(event.BackupCreatedData)
				if ok && data.Scheduled {
					mu.Lock()
					scheduled++
					mu.Unlock()
				}
			})
			defer unsubscribe()

			Eventually(func() int {
				mu.Lock()
				defer mu.Unlock()
				return scheduled
			}, "2s", "10ms").Should(BeNumerically(">=", 2))
		})
	})

	Describe("Events", func() {
		It("publishes key and save events in order", func() {
			store = newStore(lumedb.Options{})

			var mu sync.Mutex
			var seen []event.EventType
			unsubscribe := store.Events().SubscribeAll(func(ev event.Event) {
				mu.Lock()
				seen = append(seen, ev.Type)
				mu.Unlock()
			})
			defer unsubscribe()

			_, err := store.Set("a", 1)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Delete("a")
			Expect(err).NotTo(HaveOccurred())

			mu.Lock()
			defer mu.Unlock()
			Expect(seen).To(Equal([]event.EventType{
				event.KeySet,
				event.DocumentSaved,
				event.KeyDeleted,
				event.DocumentSaved,
			}))
		})
	})

	Describe("Reconfiguration", func() {
		BeforeEach(func() {
			store = newStore(lumedb.Options{})
		})

		It("moves the database to a new folder", func() {
			_, err := store.Set("moved", true)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.SetFolder("elsewhere")).To(Succeed())
			Expect(store.Folder()).To(Equal("elsewhere"))

			// The new folder starts from whatever is on disk there, which
			// is nothing.
			Expect(store.All()).To(BeEmpty())

			_, err = store.Set("fresh", 1)
			Expect(err).NotTo(HaveOccurred())

			mainData, err := afero.ReadFile(fs, store.MainPath())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(mainData)).To(MatchJSON(`{"fresh": 1}`))
		})

		It("renames the database file", func() {
			Expect(store.SetFile("records")).To(Succeed())
			Expect(store.File()).To(Equal("records"))

			_, err := store.Set("named", true)
			Expect(err).NotTo(HaveOccurred())

			exists, err := afero.Exists(fs, "db/records.json")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("toggles readable formatting", func() {
			_, err := store.Set("pretty", true)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.SetReadable(true)).To(Succeed())

			mainData, err := afero.ReadFile(fs, store.MainPath())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(mainData)).To(ContainSubstring("\n  "))
		})
	})

	Describe("Closed Store", func() {
		It("rejects mutations but keeps reads working", func() {
			store = newStore(lumedb.Options{})
			_, err := store.Set("kept", 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Close()).To(Succeed())

			_, err = store.Set("more", 2)
			Expect(err).To(MatchError(lumedb.ErrClosed))

			value, ok := store.Get("kept")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(float64(1)))
		})
	})
})

var _ = Describe("External Edits", func() {
	var (
		tempDir *testutil.TempDir
		store   *lumedb.Store
	)

	BeforeEach(func() {
		var err error
		tempDir, err = testutil.NewTempDir()
		Expect(err).NotTo(HaveOccurred())

		store, err = lumedb.New(lumedb.Options{
			Folder: tempDir.Folder("db"),
			Watch:  true,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
		if tempDir != nil {
			tempDir.Cleanup()
		}
	})

	It("picks up an external edit to the main file", func() {
		_, err := store.Set("before", 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(store.MainPath(), []byte(`{"edited": true}`), 0644)).To(Succeed())

		Eventually(func() bool {
			return store.Has("edited")
		}, "3s", "20ms").Should(BeTrue())
	})

	It("ignores corrupt external edits", func() {
		_, err := store.Set("kept", 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(store.MainPath(), []byte("{broken"), 0644)).To(Succeed())

		Consistently(func() bool {
			return store.Has("kept")
		}, "300ms", "50ms").Should(BeTrue())
	})
})
