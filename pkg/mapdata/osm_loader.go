package mapdata

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type MapFormat uint8

const (
	FORMAT_XML MapFormat = iota
	FORMAT_PBF
)

var (
	skipHighway = map[string]struct{}{
		"construction": struct{}{},
		"proposed":     struct{}{},
		"abandoned":    struct{}{},
		"platform":     struct{}{},
		"razed":        struct{}{},
		"bus_stop":     struct{}{},
		"elevator":     struct{}{},
		"services":     struct{}{},
		"rest_area":    struct{}{},
	}
)

type osmScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

// LoadOSMFile. load .osm, .osm.bz2 or .osm.pbf into a MemoryMap
func LoadOSMFile(ctx context.Context, path string, log *zap.Logger) (*MemoryMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "open map file %s", path)
	}
	defer f.Close()

	var (
		r      io.Reader = f
		format           = FORMAT_XML
	)
	switch {
	case strings.HasSuffix(path, ".pbf"):
		format = FORMAT_PBF
	case strings.HasSuffix(path, ".bz2"):
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "open bzip2 stream %s", path)
		}
		defer bz.Close()
		r = bz
	}

	log.Info("Reading openstreetmap file...", zap.String("path", path))
	return LoadOSM(ctx, r, format, log)
}

/*
LoadOSM. single pass over the osm stream. all nodes are buffered because osm files list nodes before the ways
referencing them; only nodes used by a routable way are kept in the map.
*/
func LoadOSM(ctx context.Context, r io.Reader, format MapFormat, log *zap.Logger) (*MemoryMap, error) {
	var scanner osmScanner
	if format == FORMAT_PBF {
		scanner = osmpbf.New(ctx, r, 1)
	} else {
		scanner = osmxml.New(ctx, r)
	}
	defer scanner.Close()

	allNodes := make(map[int64]*da.Node)
	b := NewBuilder()
	countWays, countRelations := 0, 0

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			allNodes[int64(o.ID)] = da.NewNode(int64(o.ID), o.Lat, o.Lon, convertTags(o.Tags, true))
		case *osm.Way:
			if len(o.Nodes) < 2 || !acceptOsmWay(o) {
				continue
			}
			if (countWays+1)%50000 == 0 {
				log.Info("reading openstreetmap ways...", zap.Int("ways", countWays+1))
			}
			countWays++
			nodeIDs := make([]int64, 0, len(o.Nodes))
			for _, wn := range o.Nodes {
				nodeIDs = append(nodeIDs, int64(wn.ID))
			}
			b.AddWay(da.NewWay(int64(o.ID), nodeIDs, convertTags(o.Tags, false)))
		case *osm.Relation:
			if o.Tags.Find("type") != "restriction" {
				continue
			}
			countRelations++
			members := make([]da.Member, 0, len(o.Members))
			for _, m := range o.Members {
				var tipe da.MemberType
				switch m.Type {
				case osm.TypeNode:
					tipe = da.MEMBER_NODE
				case osm.TypeWay:
					tipe = da.MEMBER_WAY
				default:
					tipe = da.MEMBER_RELATION
				}
				members = append(members, da.NewMember(tipe, m.Ref, m.Role))
			}
			b.AddRelation(da.NewRelation(int64(o.ID), convertTags(o.Tags, false), members))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan openstreetmap data: %w", err)
	}

	missing := 0
	for _, w := range b.ways {
		for _, nodeID := range w.GetNodeIDs() {
			if b.HasNode(nodeID) {
				continue
			}
			n, ok := allNodes[nodeID]
			if !ok {
				missing++
				continue
			}
			b.AddNode(n)
		}
	}
	if missing > 0 {
		log.Warn("ways reference nodes missing from the map file", zap.Int("missingNodes", missing))
	}

	m := b.Build()
	log.Info("openstreetmap data loaded", zap.Int("nodes", m.NumberOfNodes()), zap.Int("ways", countWays),
		zap.Int("restrictions", countRelations))
	return m, nil
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		_, skip := skipHighway[highway]
		return !skip
	}
	return junction != ""
}

func convertTags(tags osm.Tags, node bool) da.Tags {
	if len(tags) == 0 {
		return nil
	}
	converted := make(da.Tags, len(tags))
	for _, tag := range tags {
		if node && (strings.Contains(tag.Key, "created_by") ||
			strings.Contains(tag.Key, "source") ||
			strings.Contains(tag.Key, "note") ||
			strings.Contains(tag.Key, "fixme")) {
			continue
		}
		converted[tag.Key] = tag.Value
	}
	return converted
}
