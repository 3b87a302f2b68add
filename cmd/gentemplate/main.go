// Command gentemplate generates the Excel import template for requests.
// Usage: go run cmd/gentemplate/main.go
package main

import (
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	f := excelize.NewFile()

	// Rename Sheet1 to Requests
	if err := f.SetSheetName("Sheet1", "Requests"); err != nil {
		log.Fatal(err)
	}

	// Add headers
	headers := []string{
		"url", "requestType", "priority", "contentType", "country",
		"zone", "title", "tags", "backcrawlDepthDays", "recurringFreqHours",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Requests", cell, h); err != nil {
			log.Fatal(err)
		}
	}

	// Add example row 1
	row1 := []string{
		"https://news.example.com/feed",
		"RECURRING",
		"High",
		"post",
		"Japan",
		"R",
		"Example news feed",
		"news, asia",
		"7",
		"4",
	}
	for i, v := range row1 {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Requests", cell, v); err != nil {
			log.Fatal(err)
		}
	}

	// Add example row 2
	row2 := []string{"https://blog.example.org", "ADHOC", "Medium", "post", "", "", "", "", "", ""}
	for i, v := range row2 {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Requests", cell, v); err != nil {
			log.Fatal(err)
		}
	}

	// Create Instructions sheet
	if _, err := f.NewSheet("Instructions"); err != nil {
		log.Fatal(err)
	}
	instructions := []string{
		"Column Descriptions:",
		"",
		"url - Required. Target URL for the collection request",
		"requestType - Optional. ADHOC/RECURRING/LIVESTREAM (default: ADHOC)",
		"priority - Optional. Urgent/High/Medium/Low (default: Medium)",
		"contentType - Optional. Content type hint, e.g. 'post'",
		"country - Optional. Country name",
		"zone - Optional. Zone code",
		"title - Optional. Display title",
		"tags - Optional. Comma-separated tags (e.g. 'news, asia')",
		"backcrawlDepthDays - Optional. Non-negative integer day count",
		"recurringFreqHours - Optional. Positive integer hours between runs",
	}
	for i, line := range instructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Instructions", cell, line); err != nil {
			log.Fatal(err)
		}
	}

	// Ensure examples directory exists
	if err := os.MkdirAll("examples", 0755); err != nil {
		log.Fatal(err)
	}

	// Save the file
	if err := f.SaveAs("examples/request-import-template.xlsx"); err != nil {
		log.Fatal(err)
	}
	log.Println("Created examples/request-import-template.xlsx")
}
