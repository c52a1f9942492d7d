package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abhis59060/Network-analyzer/internal/analyzer"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:5000", "listen address")
	workDir := flag.String("work-dir", "./uploads", "directory for in-flight uploads")
	protocolMap := flag.String("protocol-map", "protocol_map.yaml", "optional protocol name overrides")
	scanThreshold := flag.Int("port-scan-threshold", analyzer.DefaultPortScanThreshold, "distinct SYN ports before a source is flagged")
	ddosThreshold := flag.Float64("ddos-rate-threshold", analyzer.DefaultDDoSRateThreshold, "packets per second toward one destination before it is flagged")
	flag.Parse()

	if err := os.MkdirAll(*workDir, 0755); err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}

	protocols, err := analyzer.LoadProtocolMap(*protocolMap)
	if err != nil {
		fmt.Printf("Failed to load protocol map: %v\n", err)
		os.Exit(1)
	}

	h := analyzer.NewHandler(analyzer.New(protocols, *scanThreshold, *ddosThreshold), *workDir)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	h.RegisterRoutes(e)

	fmt.Printf("Packet analyzer listening on %s (work dir %s)\n", *addr, *workDir)
	e.Logger.Fatal(e.Start(*addr))
}
