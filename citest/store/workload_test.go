package store_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	lumedb "github.com/wizardsarehere/LumeDB"
	"github.com/wizardsarehere/LumeDB/citest/testutil"
)

var _ = Describe("Workloads", func() {
	workloads, loadErr := testutil.LoadWorkloads(filepath.Join("testdata", "workloads.yaml"))

	It("loads the workload file", func() {
		Expect(loadErr).NotTo(HaveOccurred())
		Expect(workloads).NotTo(BeEmpty())
	})

	for _, workload := range workloads {
		workload := workload
		It("runs the "+workload.Name+" workload", func() {
			store, err := lumedb.New(lumedb.Options{
				Folder:      "db",
				NoBlankData: workload.NoBlankData,
				FS:          afero.NewMemMapFs(),
			})
			Expect(err).NotTo(HaveOccurred())
			defer store.Close()

			Expect(workload.Run(store)).To(Succeed())
			Expect(workload.Verify(store)).To(Succeed())
		})
	}
})
