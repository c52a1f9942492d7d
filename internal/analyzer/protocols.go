package analyzer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultProtocolMap maps IANA protocol numbers to display names.
func defaultProtocolMap() map[int]string {
	return map[int]string{
		0:   "HOPOPT",
		1:   "ICMP",
		2:   "IGMP",
		6:   "TCP",
		17:  "UDP",
		19:  "CHARGEN",
		37:  "Time",
		89:  "OSPF",
		118: "STP",
		120: "SMP",
		127: "Private",
		170: "EMFAS",
		240: "Experimental",
	}
}

// LoadProtocolMap returns the default protocol name mapping, merged with
// overrides from the given YAML file when it exists. The file holds a
// flat number-to-name mapping:
//
//	6: TCP
//	132: SCTP
func LoadProtocolMap(path string) (map[int]string, error) {
	m := defaultProtocolMap()
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("failed to read protocol map %s: %w", path, err)
	}

	overrides := map[int]string{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse protocol map %s: %w", path, err)
	}
	for num, name := range overrides {
		m[num] = name
	}
	return m, nil
}

// protocolName resolves a protocol number against the mapping.
func protocolName(m map[int]string, number int) string {
	if name, ok := m[number]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", number)
}
