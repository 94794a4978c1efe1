package catalog

import (
	"github.com/airbusgeo/emit-ingester/catalog/entities"
	"github.com/airbusgeo/emit-ingester/common"
)

// timestampIndex maps each acquisition timestamp to the first link containing it
type timestampIndex map[string]string

func newTimestampIndex(granules entities.Granules, rule entities.LinkRule) timestampIndex {
	index := timestampIndex{}
	for _, g := range granules {
		for _, link := range rule.Filter(g.Links) {
			for _, ts := range common.GetTimestamps(link) {
				if _, ok := index[ts]; !ok {
					index[ts] = link
				}
			}
		}
	}
	return index
}

// MatchPair returns the first link of granulesA (satisfying ruleA) sharing its acquisition timestamp
// with a link of granulesB (satisfying ruleB).
// Candidates are examined in catalog order. The first product-B link containing the timestamp is chosen.
func MatchPair(regionID string, granulesA, granulesB entities.Granules, ruleA, ruleB entities.LinkRule) (entities.MatchedPair, bool) {
	index := newTimestampIndex(granulesB, ruleB)
	if len(index) == 0 {
		return entities.MatchedPair{}, false
	}
	for _, g := range granulesA {
		for _, link := range ruleA.Filter(g.Links) {
			ts, ok := common.GetTimestamp(link)
			if !ok {
				continue
			}
			if linkB, ok := index[ts]; ok {
				pair := entities.MatchedPair{RegionID: regionID, URLA: link, URLB: linkB, Timestamp: ts}
				pair.AcquisitionTime, _ = common.ParseTimestamp(ts)
				return pair, true
			}
		}
	}
	return entities.MatchedPair{}, false
}
