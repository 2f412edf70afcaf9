// Package parser reads wall footprints given as SVG path data.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"precast-bim/internal/bim/models"
)

// ============================================================
// Path Parser
// ============================================================

var (
	commandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)
	numberRe  = regexp.MustCompile(`[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

// ParsePath парсит SVG path (M, L, H, V, Z, абсолютные и относительные) в список
// вершин контура. Повторные пары координат после M/L трактуются как L.
func ParsePath(d string) ([]models.Point2D, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}
	if !strings.ContainsAny(d[:1], "Mm") {
		return nil, fmt.Errorf("path must start with a moveto, got %q", d[:1])
	}

	var points []models.Point2D
	var cur, start models.Point2D

	for _, match := range commandRe.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords, err := parseCoords(match[2])
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", cmd, err)
		}
		relative := cmd == strings.ToLower(cmd)

		switch strings.ToUpper(cmd) {
		case "M", "L":
			if len(coords) == 0 || len(coords)%2 != 0 {
				return nil, fmt.Errorf("command %s needs coordinate pairs, got %d values", cmd, len(coords))
			}
			for i := 0; i < len(coords); i += 2 {
				if relative {
					cur.X += coords[i]
					cur.Y += coords[i+1]
				} else {
					cur.X, cur.Y = coords[i], coords[i+1]
				}
				if i == 0 && strings.ToUpper(cmd) == "M" {
					start = cur
				}
				points = append(points, cur)
			}

		case "H", "V":
			if len(coords) == 0 {
				return nil, fmt.Errorf("command %s needs a value", cmd)
			}
			for _, c := range coords {
				axis := &cur.X
				if strings.ToUpper(cmd) == "V" {
					axis = &cur.Y
				}
				if relative {
					*axis += c
				} else {
					*axis = c
				}
				points = append(points, cur)
			}

		case "Z":
			// замыкаем на начало подпути
			if len(points) > 0 && points[len(points)-1] != start {
				points = append(points, start)
			}
			cur = start
		}
	}

	return points, nil
}

func parseCoords(s string) ([]float64, error) {
	var coords []float64
	last := 0
	// в компактной записи знак или вторая точка тоже разделяют числа: "100-50", "0.5.5"
	for _, loc := range numberRe.FindAllStringIndex(s, -1) {
		if gap := s[last:loc[0]]; strings.Trim(gap, " \t\r\n,") != "" {
			return nil, fmt.Errorf("invalid coordinate %q", strings.TrimSpace(gap))
		}
		val, err := strconv.ParseFloat(s[loc[0]:loc[1]], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", s[loc[0]:loc[1]])
		}
		coords = append(coords, val)
		last = loc[1]
	}
	if tail := s[last:]; strings.Trim(tail, " \t\r\n,") != "" {
		return nil, fmt.Errorf("invalid coordinate %q", strings.TrimSpace(tail))
	}
	return coords, nil
}

// FormatPath записывает контур как абсолютный SVG path с замыканием Z.
func FormatPath(points []models.Point2D) string {
	if len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, p := range points {
		if i == len(points)-1 && i > 0 && p == points[0] {
			break
		}
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(formatFloat(p.X))
		sb.WriteString(" ")
		sb.WriteString(formatFloat(p.Y))
	}
	sb.WriteString(" Z")
	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
