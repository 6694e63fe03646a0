package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/DoyleJ11/lol-rune-draft/internal/runes"
)

const DefaultDDragonURL = "https://ddragon.leagueoflegends.com"

const statModIconBase = "https://raw.communitydragon.org/15.20/plugins/rcp-be-lol-game-data/global/default/v1/perk-images/statmods/"

var statShards = map[int]runes.Entry{
	5008: {Name: "Adaptive Force", Icon: statModIconBase + "statmodsadaptiveforceicon.png"},
	5005: {Name: "Attack Speed", Icon: statModIconBase + "statmodsattackspeedicon.png"},
	5007: {Name: "Ability Haste", Icon: statModIconBase + "statmodscdrscalingicon.png"},
	5010: {Name: "Movement Speed", Icon: statModIconBase + "statmodsmovementspeedicon.png"},
	5001: {Name: "Scaling Health", Icon: statModIconBase + "statmodshealthplusicon.png"},
	5011: {Name: "Bonus Health", Icon: statModIconBase + "statmodshealthscalingicon.png"},
	5013: {Name: "Tenacity & Slow Resist", Icon: statModIconBase + "statmodstenacityicon.png"},
	5002: {Name: "Armor", Icon: statModIconBase + "statmodsarmoricon.png"},
	5003: {Name: "Magic Resist", Icon: statModIconBase + "statmodsmagicresicon.png"},
}

// Metadata holds names and icons for runes, styles, shards and summoner
// spells. It implements runes.Names.
type Metadata struct {
	Perks          map[int]runes.Entry
	Styles         map[int]runes.Entry
	StatShards     map[int]runes.Entry
	SummonerSpells map[int]runes.Entry
}

func (m *Metadata) Rune(id int) (runes.Entry, bool) {
	e, ok := m.Perks[id]
	return e, ok
}

func (m *Metadata) Style(id int) (runes.Entry, bool) {
	e, ok := m.Styles[id]
	return e, ok
}

func (m *Metadata) Shard(id int) (runes.Entry, bool) {
	e, ok := m.StatShards[id]
	return e, ok
}

func (m *Metadata) Spell(id int) (runes.Entry, bool) {
	e, ok := m.SummonerSpells[id]
	return e, ok
}

type ddragonStyle struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Slots []struct {
		Runes []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			Icon string `json:"icon"`
		} `json:"runes"`
	} `json:"slots"`
}

type ddragonSummoners struct {
	Data map[string]struct {
		Key   string `json:"key"`
		Name  string `json:"name"`
		Image struct {
			Full string `json:"full"`
		} `json:"image"`
	} `json:"data"`
}

// MetadataProvider fetches metadata from Data Dragon once and caches it.
// Concurrent first loads share a single fetch.
type MetadataProvider struct {
	baseURL string
	version string
	client  *http.Client
	log     *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	meta  *Metadata
}

func NewMetadataProvider(baseURL, version string, client *http.Client, log *zap.Logger) *MetadataProvider {
	if baseURL == "" {
		baseURL = DefaultDDragonURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MetadataProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		version: version,
		client:  client,
		log:     log.Named("metadata"),
	}
}

// Cached returns the loaded metadata without fetching, or nil.
func (p *MetadataProvider) Cached() *Metadata {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meta
}

func (p *MetadataProvider) Load(ctx context.Context) (*Metadata, error) {
	if m := p.Cached(); m != nil {
		return m, nil
	}
	v, err, _ := p.group.Do("metadata", func() (any, error) {
		if m := p.Cached(); m != nil {
			return m, nil
		}
		m, err := p.fetch(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.meta = m
		p.mu.Unlock()
		p.log.Info("rune metadata loaded",
			zap.String("version", p.version),
			zap.Int("perks", len(m.Perks)),
			zap.Int("spells", len(m.SummonerSpells)))
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load rune metadata: %w", err)
	}
	return v.(*Metadata), nil
}

// Reset drops the cache so the next Load fetches again.
func (p *MetadataProvider) Reset() {
	p.mu.Lock()
	p.meta = nil
	p.mu.Unlock()
}

func (p *MetadataProvider) fetch(ctx context.Context) (*Metadata, error) {
	var styles []ddragonStyle
	var spells ddragonSummoners

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.getJSON(gctx, fmt.Sprintf("%s/cdn/%s/data/en_US/runesReforged.json", p.baseURL, p.version), &styles)
	})
	g.Go(func() error {
		return p.getJSON(gctx, fmt.Sprintf("%s/cdn/%s/data/en_US/summoner.json", p.baseURL, p.version), &spells)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Metadata{
		Perks:          map[int]runes.Entry{},
		Styles:         map[int]runes.Entry{},
		StatShards:     statShards,
		SummonerSpells: map[int]runes.Entry{},
	}
	imgBase := p.baseURL + "/cdn/img/"
	for _, s := range styles {
		m.Styles[s.ID] = runes.Entry{Name: s.Name, Icon: imgBase + s.Icon}
		for _, slot := range s.Slots {
			for _, r := range slot.Runes {
				m.Perks[r.ID] = runes.Entry{Name: r.Name, Icon: imgBase + r.Icon}
			}
		}
	}

	spellBase := fmt.Sprintf("%s/cdn/%s/img/spell/", p.baseURL, p.version)
	for _, sp := range spells.Data {
		id, err := strconv.Atoi(sp.Key)
		if err != nil {
			p.log.Warn("skipping summoner spell with bad key", zap.String("key", sp.Key))
			continue
		}
		m.SummonerSpells[id] = runes.Entry{Name: sp.Name, Icon: spellBase + sp.Image.Full}
	}
	return m, nil
}

func (p *MetadataProvider) getJSON(ctx context.Context, url string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	return nil
}
