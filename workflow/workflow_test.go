package workflow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/airbusgeo/emit-ingester/catalog"
	"github.com/airbusgeo/emit-ingester/catalog/entities"
	"github.com/airbusgeo/emit-ingester/common"
	"github.com/airbusgeo/emit-ingester/downloader"
	"github.com/airbusgeo/emit-ingester/interface/provider"
	"github.com/airbusgeo/emit-ingester/service"
	"github.com/airbusgeo/emit-ingester/workflow"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const regionGeoJSON = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[-104,31],[-103,31],[-103,32],[-104,32],[-104,31]]]}}
]}`

func granule(id string, urls ...string) *entities.Granule {
	return &entities.Granule{ID: id, Title: id, Links: urls}
}

var _ = Describe("Workflow", func() {
	var (
		ctx        = context.Background()
		err        error
		tmpDir     string
		regionsDir string
		cat        *MokeCatalog
		wf         *workflow.Workflow
	)

	fileA := "EMIT_L2A_RFL_001_20231015T171530_2328811_004.nc"
	fileB := "EMIT_L2B_CH4PLM_001_20231015T171530_000421.tif"

	newWorkflow := func() *workflow.Workflow {
		dl := &downloader.Downloader{
			Providers: []provider.FileProvider{provider.NewEarthdataProvider(server.Client(), 1024)},
		}
		return workflow.NewWorkflow(&catalog.Catalog{Provider: cat}, dl, downloader.NewPool(4),
			filepath.Join(tmpDir, "l2a"), filepath.Join(tmpDir, "l2b"))
	}

	writeRegion := func(name, content string) {
		Expect(os.WriteFile(filepath.Join(regionsDir, name), []byte(content), 0644)).To(Succeed())
	}

	BeforeEach(func() {
		tmpDir, err = os.MkdirTemp("", "workflow")
		Expect(err).NotTo(HaveOccurred())
		regionsDir = filepath.Join(tmpDir, "geojsons")
		Expect(os.Mkdir(regionsDir, 0755)).To(Succeed())
		cat = &MokeCatalog{granules: map[string]entities.Granules{}}
		wf = newWorkflow()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Context("when the regions directory does not exist", func() {
		It("should return a fatal error", func() {
			err = wf.Run(ctx, filepath.Join(tmpDir, "missing"))
			Expect(err).To(HaveOccurred())
			Expect(service.Fatal(err)).To(BeTrue())
		})
	})

	Context("when a region has a matching pair", func() {
		BeforeEach(func() {
			writeRegion("permian.json", regionGeoJSON)
			cat.granules[common.ProductL2ARFL.ShortName] = entities.Granules{
				granule("A1",
					server.URL+"/EMIT_L2A_RFLUNCERT_001_20231015T171530_2328811_004.nc",
					server.URL+"/EMIT_L2A_MASK_001_20231015T171530_2328811_004.nc",
					server.URL+"/"+fileA),
			}
			cat.granules[common.ProductL2BCH4PLM.ShortName] = entities.Granules{
				granule("B1", server.URL+"/EMIT_L2B_CH4PLM_001_20231016T080000_000001.tif"),
				granule("B2", server.URL+"/"+fileB),
			}
		})

		It("should download both files", func() {
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())

			dataA, err := os.ReadFile(filepath.Join(tmpDir, "l2a", "permian_"+fileA))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(dataA)).To(Equal("content of /" + fileA))
			dataB, err := os.ReadFile(filepath.Join(tmpDir, "l2b", "permian_"+fileB))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(dataB)).To(Equal("content of /" + fileB))

			snapshot := wf.Report().Snapshot()
			Expect(snapshot.Regions).To(HaveKeyWithValue("permian", common.RegionDOWNLOAD_SUBMITTED))
			Expect(snapshot.Pending).To(BeZero())
			Expect(snapshot.Submitted).To(Equal(2))
			Expect(snapshot.Downloads).To(HaveKeyWithValue("DONE", 2))
		})

		It("should query both products over the bounding box of the region", func() {
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())
			Expect(cat.queries).To(HaveLen(2))
			Expect(cat.queries[0].ShortName).To(Equal("EMITL2ARFL"))
			Expect(cat.queries[1].ShortName).To(Equal("EMITL2BCH4PLM"))
			Expect(cat.queries[0].BBox).To(Equal(entities.BBox{MinX: -104, MinY: 31, MaxX: -103, MaxY: 32}))
			Expect(cat.queries[0].StartTime).To(Equal(catalog.DefaultStartTime))
			Expect(cat.queries[0].EndTime).To(Equal(catalog.DefaultEndTime))
		})

		It("should not download anything on a second run", func() {
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())
			hits := server.Hits()

			wf = newWorkflow()
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())
			Expect(server.Hits()).To(Equal(hits))
			Expect(wf.Report().Snapshot().Downloads).To(HaveKeyWithValue("SKIPPED", 2))
		})

		It("should serve the report", func() {
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())

			rec := httptest.NewRecorder()
			wf.NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			var snapshot workflow.ReportSnapshot
			Expect(json.Unmarshal(rec.Body.Bytes(), &snapshot)).To(Succeed())
			Expect(snapshot.Regions).To(HaveKeyWithValue("permian", common.RegionDOWNLOAD_SUBMITTED))

			rec = httptest.NewRecorder()
			wf.NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/regions/DOWNLOAD_SUBMITTED", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`["permian"]`))
		})
	})

	Context("when no granule of product B shares a timestamp", func() {
		BeforeEach(func() {
			writeRegion("unmatched.json", regionGeoJSON)
			cat.granules[common.ProductL2ARFL.ShortName] = entities.Granules{granule("A1", server.URL+"/"+fileA)}
			cat.granules[common.ProductL2BCH4PLM.ShortName] = entities.Granules{
				granule("B1", server.URL+"/EMIT_L2B_CH4PLM_001_20231016T080000_000001.tif"),
			}
		})

		It("should skip the region without downloading", func() {
			hits := server.Hits()
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())
			Expect(server.Hits()).To(Equal(hits))
			snapshot := wf.Report().Snapshot()
			Expect(snapshot.Regions).To(HaveKeyWithValue("unmatched", common.RegionSKIPPED))
			Expect(snapshot.Submitted).To(BeZero())
		})
	})

	Context("when a product has no granule", func() {
		BeforeEach(func() {
			writeRegion("empty.json", regionGeoJSON)
			cat.granules[common.ProductL2ARFL.ShortName] = entities.Granules{granule("A1", server.URL+"/"+fileA)}
		})

		It("should skip the region", func() {
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())
			Expect(wf.Report().Snapshot().Regions).To(HaveKeyWithValue("empty", common.RegionSKIPPED))
		})
	})

	Context("when a region cannot be processed", func() {
		BeforeEach(func() {
			writeRegion("broken.json", "{not json")
			writeRegion("valid.json", regionGeoJSON)
		})

		It("should skip it and process the next regions", func() {
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())
			snapshot := wf.Report().Snapshot()
			Expect(snapshot.Regions).To(HaveKeyWithValue("broken", common.RegionSKIPPED))
			Expect(snapshot.Regions).To(HaveKeyWithValue("valid", common.RegionSKIPPED))
			Expect(snapshot.Pending).To(BeZero())
			Expect(wf.Report().Summary()).To(ContainSubstring("SKIPPED=2"))
			Expect(cat.queries).To(HaveLen(2))
		})

		It("should skip it when the search fails", func() {
			cat.err = fmt.Errorf("catalog unavailable")
			Expect(wf.Run(ctx, regionsDir)).To(Succeed())
			Expect(wf.Report().Snapshot().Regions).To(HaveKeyWithValue("valid", common.RegionSKIPPED))
		})

		It("should stop on a fatal error", func() {
			cat.err = service.MakeFatal(fmt.Errorf("unauthorized"))
			err = wf.Run(ctx, regionsDir)
			Expect(err).To(HaveOccurred())
			Expect(service.Fatal(err)).To(BeTrue())
		})
	})

	Context("when the regions path is a single file", func() {
		BeforeEach(func() {
			writeRegion("single.json", regionGeoJSON)
			writeRegion("other.json", regionGeoJSON)
		})

		It("should only process this file", func() {
			Expect(wf.Run(ctx, filepath.Join(regionsDir, "single.json"))).To(Succeed())
			regions := wf.Report().Snapshot().Regions
			Expect(regions).To(HaveLen(1))
			Expect(regions).To(HaveKey("single"))
		})
	})
})

var _ = Describe("Report", func() {
	It("should count the regions not yet in a final state", func() {
		report := workflow.NewReport()
		report.SetRegion("a", common.RegionDOWNLOAD_SUBMITTED)
		report.SetRegion("b", common.RegionMATCHED)
		report.SetRegion("c", common.RegionUNMATCHED)
		report.SetRegion("d", common.RegionSKIPPED)
		report.AddResults([]downloader.Result{{RegionID: "a", Status: common.StatusDONE}, {RegionID: "a", Status: common.StatusTIMEOUT}})

		snapshot := report.Snapshot()
		Expect(snapshot.Pending).To(Equal(2))
		Expect(snapshot.Downloads).To(Equal(map[string]int{"DONE": 1, "TIMEOUT": 1}))
		Expect(report.Summary()).To(Equal("regions: [DOWNLOAD_SUBMITTED=1 MATCHED=1 SKIPPED=1 UNMATCHED=1] (2 pending), downloads: [DONE=1 TIMEOUT=1]"))
	})
})
