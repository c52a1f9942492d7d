// Package analyzer implements the packet analysis service: it reads a
// capture file, extracts per-packet records and builds the chart payloads
// served back to the gateway.
package analyzer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/google/uuid"

	"github.com/abhis59060/Network-analyzer/internal/models"
)

// DefaultPortScanThreshold is the number of distinct SYN-probed ports
// from one source that flags it as a potential scanner.
const DefaultPortScanThreshold = 100

// DefaultDDoSRateThreshold is the packets-per-second rate toward one
// destination that flags it as a potential DDoS target.
const DefaultDDoSRateThreshold = 1000

// Record is one analyzed packet on the wire format.
type Record struct {
	SrcIP    string  `json:"src_ip"`
	DstIP    string  `json:"dst_ip"`
	Protocol string  `json:"protocol"`
	Size     int64   `json:"size"`
	Time     float64 `json:"time"`
	SrcPort  int64   `json:"src_port"`
	DstPort  int64   `json:"dst_port"`
	TCPFlags string  `json:"tcp_flags"`
}

// Report is the full outcome of analyzing one capture file.
type Report struct {
	Records        []Record                   `json:"analysis_results"`
	Visualizations []models.VisualizationSpec `json:"visualizations"`
	Message        string                     `json:"message"`
}

// Analyzer turns capture files into analysis reports.
type Analyzer struct {
	protocols         map[int]string
	portScanThreshold int
	ddosRateThreshold float64
}

// New creates an analyzer with the given protocol mapping. A nil map
// falls back to the built-in IANA subset; non-positive thresholds fall
// back to the defaults.
func New(protocols map[int]string, portScanThreshold int, ddosRateThreshold float64) *Analyzer {
	if protocols == nil {
		protocols = defaultProtocolMap()
	}
	if portScanThreshold <= 0 {
		portScanThreshold = DefaultPortScanThreshold
	}
	if ddosRateThreshold <= 0 {
		ddosRateThreshold = DefaultDDoSRateThreshold
	}
	return &Analyzer{
		protocols:         protocols,
		portScanThreshold: portScanThreshold,
		ddosRateThreshold: ddosRateThreshold,
	}
}

// AnalyzeFile runs the full pipeline over one capture file.
func (a *Analyzer) AnalyzeFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	records, err := a.extract(f, path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no valid IP packets found in %s", path)
	}

	if scanners := a.detectPortScanners(records); len(scanners) > 0 {
		fmt.Printf("[Analyzer] Potential port scanners in %s: %s\n", path, strings.Join(scanners, ", "))
	}
	if targets := a.detectDDoSTargets(records); len(targets) > 0 {
		fmt.Printf("[Analyzer] Potential DDoS targets in %s: %s\n", path, strings.Join(targets, ", "))
	}

	return &Report{
		Records:        records,
		Visualizations: a.buildVisualizations(records, path),
		Message:        "Analysis completed successfully",
	}, nil
}

// pcapng section header block magic
var ngMagic = [4]byte{0x0a, 0x0d, 0x0d, 0x0a}

// extract reads every packet and keeps those with a usable IPv4 header.
func (a *Analyzer) extract(f *os.File, path string) ([]Record, error) {
	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read capture header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var (
		next     func() ([]byte, gopacket.CaptureInfo, error)
		linkType layers.LinkType
	)
	if magic == ngMagic {
		r, err := pcapgo.NewNgReader(f, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pcapng file %s: %w", path, err)
		}
		next = r.ReadPacketData
		linkType = r.LinkType()
	} else {
		r, err := pcapgo.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pcap file %s: %w", path, err)
		}
		next = r.ReadPacketData
		linkType = r.LinkType()
	}

	var records []Record
	for {
		data, ci, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read packet: %w", err)
		}

		pkt := gopacket.NewPacket(data, linkType, gopacket.Default)
		rec, ok := a.extractRecord(pkt, ci)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// extractRecord pulls the record fields out of one decoded packet.
// Packets without an IPv4 header are skipped, as are ones with a
// reserved 0.0.0.0/8 source or destination.
func (a *Analyzer) extractRecord(pkt gopacket.Packet, ci gopacket.CaptureInfo) (Record, bool) {
	ip4Layer := pkt.Layer(layers.LayerTypeIPv4)
	if ip4Layer == nil {
		return Record{}, false
	}
	ip4 := ip4Layer.(*layers.IPv4)

	srcIP := ip4.SrcIP.String()
	dstIP := ip4.DstIP.String()
	if strings.HasPrefix(srcIP, "0.") || strings.HasPrefix(dstIP, "0.") {
		return Record{}, false
	}

	rec := Record{
		SrcIP:    srcIP,
		DstIP:    dstIP,
		Protocol: protocolName(a.protocols, int(ip4.Protocol)),
		Size:     int64(ci.Length),
		Time:     float64(ci.Timestamp.UnixNano()) / 1e9,
	}

	if tcpLayer := pkt.Layer(layers.LayerTypeTCP); tcpLayer != nil {
		tcp := tcpLayer.(*layers.TCP)
		rec.SrcPort = int64(tcp.SrcPort)
		rec.DstPort = int64(tcp.DstPort)
		rec.TCPFlags = flagString(tcp)
	}

	return rec, true
}

// flagString renders TCP flags as single letters in FSRPAUEC order.
func flagString(tcp *layers.TCP) string {
	var b strings.Builder
	if tcp.FIN {
		b.WriteByte('F')
	}
	if tcp.SYN {
		b.WriteByte('S')
	}
	if tcp.RST {
		b.WriteByte('R')
	}
	if tcp.PSH {
		b.WriteByte('P')
	}
	if tcp.ACK {
		b.WriteByte('A')
	}
	if tcp.URG {
		b.WriteByte('U')
	}
	if tcp.ECE {
		b.WriteByte('E')
	}
	if tcp.CWR {
		b.WriteByte('C')
	}
	return b.String()
}

// detectPortScanners reports sources that SYN-probed at least the
// threshold number of distinct destination ports.
func (a *Analyzer) detectPortScanners(records []Record) []string {
	probed := map[string]map[int64]struct{}{}
	for _, rec := range records {
		if rec.Protocol != "TCP" || !strings.Contains(rec.TCPFlags, "S") {
			continue
		}
		ports, ok := probed[rec.SrcIP]
		if !ok {
			ports = map[int64]struct{}{}
			probed[rec.SrcIP] = ports
		}
		ports[rec.DstPort] = struct{}{}
	}

	var scanners []string
	for src, ports := range probed {
		if len(ports) >= a.portScanThreshold {
			scanners = append(scanners, src)
		}
	}
	sort.Strings(scanners)
	return scanners
}

// detectDDoSTargets reports destinations receiving packets above the
// rate threshold over the capture's time span. A zero span yields no
// targets since no rate can be computed.
func (a *Analyzer) detectDDoSTargets(records []Record) []string {
	minTime, maxTime := records[0].Time, records[0].Time
	counts := map[string]int{}
	for _, rec := range records {
		counts[rec.DstIP]++
		if rec.Time < minTime {
			minTime = rec.Time
		}
		if rec.Time > maxTime {
			maxTime = rec.Time
		}
	}

	span := maxTime - minTime
	if span == 0 {
		return nil
	}

	var targets []string
	for dst, n := range counts {
		if float64(n)/span > a.ddosRateThreshold {
			targets = append(targets, dst)
		}
	}
	sort.Strings(targets)
	return targets
}

// buildVisualizations produces the protocol distribution bar chart and,
// when timestamps are present, the packet size over time line chart.
func (a *Analyzer) buildVisualizations(records []Record, path string) []models.VisualizationSpec {
	specs := []models.VisualizationSpec{
		{
			ID:    uuid.New().String(),
			Title: "Protocol Distribution",
			Chart: protocolDistribution(records),
		},
	}
	if chart := sizeOverTime(records); chart != nil {
		specs = append(specs, models.VisualizationSpec{
			ID:    uuid.New().String(),
			Title: "Packet Size Over Time",
			Chart: chart,
		})
	}
	return specs
}

// protocolDistribution computes per-protocol traffic share in percent,
// most frequent protocol first.
func protocolDistribution(records []Record) *models.ChartData {
	counts := map[string]int{}
	for _, rec := range records {
		counts[rec.Protocol]++
	}

	labels := make([]string, 0, len(counts))
	for proto := range counts {
		labels = append(labels, proto)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	values := make([]float64, len(labels))
	total := float64(len(records))
	for i, proto := range labels {
		values[i] = float64(counts[proto]) / total * 100
	}

	return &models.ChartData{
		Labels: labels,
		Datasets: []models.Dataset{
			{Label: "Protocol Distribution", Values: values},
		},
	}
}

// sizeOverTime sums packet sizes per capture timestamp, with labels as
// seconds relative to the first packet.
func sizeOverTime(records []Record) *models.ChartData {
	sums := map[float64]float64{}
	minTime := records[0].Time
	for _, rec := range records {
		sums[rec.Time] += float64(rec.Size)
		if rec.Time < minTime {
			minTime = rec.Time
		}
	}
	if len(sums) == 0 {
		return nil
	}

	times := make([]float64, 0, len(sums))
	for t := range sums {
		times = append(times, t)
	}
	sort.Float64s(times)

	labels := make([]string, len(times))
	values := make([]float64, len(times))
	for i, t := range times {
		labels[i] = fmt.Sprintf("%.2f", t-minTime)
		values[i] = sums[t]
	}

	return &models.ChartData{
		Labels: labels,
		Datasets: []models.Dataset{
			{Label: "Packet Size Over Time", Values: values},
		},
	}
}
