package analyzer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type testPacket struct {
	srcIP, dstIP string
	proto        layers.IPProtocol
	srcPort      int
	dstPort      int
	syn          bool
	at           time.Time
}

// writeTestCapture builds a pcap file from synthetic Ethernet/IPv4
// frames.
func writeTestCapture(t *testing.T, path string, packets []testPacket) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create capture: %v", err)
	}
	defer f.Close()

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		t.Fatalf("failed to write file header: %v", err)
	}

	for _, p := range packets {
		eth := &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
			DstMAC:       net.HardwareAddr{0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb},
			EthernetType: layers.EthernetTypeIPv4,
		}
		ip := &layers.IPv4{
			Version:  4,
			IHL:      5,
			TTL:      64,
			Protocol: p.proto,
			SrcIP:    net.ParseIP(p.srcIP),
			DstIP:    net.ParseIP(p.dstIP),
		}

		buf := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}

		var err error
		switch p.proto {
		case layers.IPProtocolTCP:
			tcp := &layers.TCP{
				SrcPort: layers.TCPPort(p.srcPort),
				DstPort: layers.TCPPort(p.dstPort),
				SYN:     p.syn,
				ACK:     !p.syn,
			}
			if err = tcp.SetNetworkLayerForChecksum(ip); err != nil {
				t.Fatalf("failed to set checksum layer: %v", err)
			}
			err = gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload([]byte("data")))
		case layers.IPProtocolUDP:
			udp := &layers.UDP{
				SrcPort: layers.UDPPort(p.srcPort),
				DstPort: layers.UDPPort(p.dstPort),
			}
			if err = udp.SetNetworkLayerForChecksum(ip); err != nil {
				t.Fatalf("failed to set checksum layer: %v", err)
			}
			err = gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload([]byte("data")))
		default:
			err = gopacket.SerializeLayers(buf, opts, eth, ip, gopacket.Payload([]byte("data")))
		}
		if err != nil {
			t.Fatalf("failed to serialize packet: %v", err)
		}

		data := buf.Bytes()
		ci := gopacket.CaptureInfo{
			Timestamp:     p.at,
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := w.WritePacket(ci, data); err != nil {
			t.Fatalf("failed to write packet: %v", err)
		}
	}
}

func testCapturePath(t *testing.T, packets []testPacket) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.pcap")
	writeTestCapture(t, path, packets)
	return path
}

func TestAnalyzeFile(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	path := testCapturePath(t, []testPacket{
		{srcIP: "10.0.0.1", dstIP: "10.0.0.2", proto: layers.IPProtocolTCP, srcPort: 40000, dstPort: 443, syn: true, at: base},
		{srcIP: "10.0.0.2", dstIP: "10.0.0.1", proto: layers.IPProtocolTCP, srcPort: 443, dstPort: 40000, at: base.Add(time.Second)},
		{srcIP: "10.0.0.1", dstIP: "10.0.0.3", proto: layers.IPProtocolUDP, srcPort: 5353, dstPort: 53, at: base.Add(2 * time.Second)},
	})

	report, err := New(nil, 0, 0).AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if len(report.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(report.Records))
	}

	first := report.Records[0]
	assert.Equal(t, "10.0.0.1", first.SrcIP)
	assert.Equal(t, "10.0.0.2", first.DstIP)
	assert.Equal(t, "TCP", first.Protocol)
	assert.Equal(t, int64(40000), first.SrcPort)
	assert.Equal(t, int64(443), first.DstPort)
	assert.Equal(t, "S", first.TCPFlags)

	udp := report.Records[2]
	assert.Equal(t, "UDP", udp.Protocol)
	assert.Equal(t, int64(0), udp.SrcPort)
	assert.Equal(t, "", udp.TCPFlags)

	if len(report.Visualizations) != 2 {
		t.Fatalf("expected 2 visualizations, got %d", len(report.Visualizations))
	}

	dist := report.Visualizations[0]
	assert.Equal(t, "Protocol Distribution", dist.Title)
	assert.Equal(t, []string{"TCP", "UDP"}, dist.Chart.Labels)
	assert.InDelta(t, 66.67, dist.Chart.Datasets[0].Values[0], 0.01)
	assert.InDelta(t, 33.33, dist.Chart.Datasets[0].Values[1], 0.01)

	series := report.Visualizations[1]
	assert.Equal(t, "Packet Size Over Time", series.Title)
	assert.Equal(t, []string{"0.00", "1.00", "2.00"}, series.Chart.Labels)
}

func TestAnalyzeFile_SkipsNonIPv4(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	path := testCapturePath(t, []testPacket{
		{srcIP: "0.0.0.1", dstIP: "10.0.0.2", proto: layers.IPProtocolTCP, srcPort: 1, dstPort: 2, at: base},
		{srcIP: "10.0.0.1", dstIP: "10.0.0.2", proto: layers.IPProtocolICMPv4, at: base.Add(time.Second)},
	})

	report, err := New(nil, 0, 0).AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if len(report.Records) != 1 {
		t.Fatalf("expected the 0.* packet to be dropped, got %d records", len(report.Records))
	}
	assert.Equal(t, "ICMP", report.Records[0].Protocol)
}

func TestAnalyzeFile_EmptyCapture(t *testing.T) {
	path := testCapturePath(t, nil)

	_, err := New(nil, 0, 0).AnalyzeFile(path)
	if err == nil {
		t.Fatal("expected an error for a capture without IP packets")
	}
}

func TestDetectPortScanners(t *testing.T) {
	a := New(nil, 3, 0)
	records := []Record{
		{SrcIP: "10.0.0.9", Protocol: "TCP", TCPFlags: "S", DstPort: 80},
		{SrcIP: "10.0.0.9", Protocol: "TCP", TCPFlags: "S", DstPort: 443},
		{SrcIP: "10.0.0.9", Protocol: "TCP", TCPFlags: "S", DstPort: 8080},
		{SrcIP: "10.0.0.5", Protocol: "TCP", TCPFlags: "S", DstPort: 22},
		{SrcIP: "10.0.0.5", Protocol: "TCP", TCPFlags: "PA", DstPort: 23},
	}

	scanners := a.detectPortScanners(records)
	assert.Equal(t, []string{"10.0.0.9"}, scanners)
}

func TestDetectDDoSTargets(t *testing.T) {
	// 10 packets to one destination over a 1.8s span is about 5.6 pkt/s.
	flood := make([]Record, 10)
	for i := range flood {
		flood[i] = Record{DstIP: "10.0.0.2", Time: float64(i) * 0.2}
	}

	tests := []struct {
		name      string
		threshold float64
		records   []Record
		want      []string
	}{
		{
			name:      "rate above threshold flagged",
			threshold: 4,
			records:   flood,
			want:      []string{"10.0.0.2"},
		},
		{
			name:      "rate below threshold ignored",
			threshold: 6,
			records:   flood,
			want:      nil,
		},
		{
			name:      "zero time span yields no targets",
			threshold: 1,
			records: []Record{
				{DstIP: "10.0.0.2", Time: 5},
				{DstIP: "10.0.0.2", Time: 5},
			},
			want: nil,
		},
		{
			name:      "only the flooded destination is flagged",
			threshold: 4,
			records: append([]Record{
				{DstIP: "10.0.0.3", Time: 0.1},
			}, flood...),
			want: []string{"10.0.0.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(nil, 0, tt.threshold)
			assert.Equal(t, tt.want, a.detectDDoSTargets(tt.records))
		})
	}
}

func TestLoadProtocolMap(t *testing.T) {
	// Missing file keeps the defaults.
	m, err := LoadProtocolMap(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadProtocolMap failed: %v", err)
	}
	assert.Equal(t, "TCP", protocolName(m, 6))
	assert.Equal(t, "Unknown(200)", protocolName(m, 200))

	// Overrides merge over the defaults.
	path := filepath.Join(t.TempDir(), "protocols.yaml")
	if err := os.WriteFile(path, []byte("132: SCTP\n6: tcp-custom\n"), 0644); err != nil {
		t.Fatalf("failed to write overrides: %v", err)
	}
	m, err = LoadProtocolMap(path)
	if err != nil {
		t.Fatalf("LoadProtocolMap failed: %v", err)
	}
	assert.Equal(t, "SCTP", protocolName(m, 132))
	assert.Equal(t, "tcp-custom", protocolName(m, 6))
	assert.Equal(t, "UDP", protocolName(m, 17))
}

func analyzeRequest(t *testing.T, field, fileName string, content []byte) (*httptest.ResponseRecorder, error) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, fileName)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	w.Close()

	h := NewHandler(New(nil, 0, 0), t.TempDir())
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.HandleAnalyze(c)
}

func TestHandleAnalyze(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	path := testCapturePath(t, []testPacket{
		{srcIP: "10.0.0.1", dstIP: "10.0.0.2", proto: layers.IPProtocolTCP, srcPort: 12345, dstPort: 80, syn: true, at: base},
	})
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read capture: %v", err)
	}

	rec, handlerErr := analyzeRequest(t, "pcap_file", "capture.pcap", content)
	if handlerErr != nil {
		t.Fatalf("handler returned error: %v", handlerErr)
	}
	assert.Equal(t, http.StatusOK, rec.Code)

	var report Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	assert.Len(t, report.Records, 1)
	assert.Equal(t, "Analysis completed successfully", report.Message)
}

func TestHandleAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		fileName  string
		content   []byte
		wantCode  int
		wantError string
	}{
		{
			name:      "missing part",
			field:     "",
			wantCode:  http.StatusBadRequest,
			wantError: "No PCAP file provided",
		},
		{
			name:      "wrong extension",
			field:     "pcap_file",
			fileName:  "notes.txt",
			content:   []byte("hello"),
			wantCode:  http.StatusBadRequest,
			wantError: "Only .pcap or .pcapng files are allowed",
		},
		{
			name:      "corrupt capture",
			field:     "pcap_file",
			fileName:  "bad.pcap",
			content:   []byte("this is not a capture"),
			wantCode:  http.StatusInternalServerError,
			wantError: "Analysis failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := analyzeRequest(t, tt.field, tt.fileName, tt.content)
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			assert.Contains(t, body["error"], tt.wantError)
		})
	}
}
