package labels

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table maps metadata field keys to the labels shown in the detail view.
type Table struct {
	Fields          map[string]string `yaml:"fields"`
	AttributeColumn string            `yaml:"attribute_column"`
	ValueColumn     string            `yaml:"value_column"`
	FallbackHeading string            `yaml:"fallback_heading"`
}

const (
	defaultAttributeColumn = "Thuộc tính"
	defaultValueColumn     = "Giá trị"
	defaultFallbackHeading = "Flower Information"
)

// Resolve returns the display label for key, or key itself when the table
// has no entry for it.
func (t Table) Resolve(key string) string {
	if label, ok := t.Fields[key]; ok && label != "" {
		return label
	}
	return key
}

// Default returns the built-in Vietnamese label table.
func Default() Table {
	return Table{
		Fields: map[string]string{
			"name":                      "Tên",
			"appearance":                "Ngoại hình",
			"fragrance":                 "Hương thơm",
			"growthCycle":               "Chu kỳ sinh trưởng",
			"habitatAndDistribution":    "Môi trường và phân bố",
			"symbolismAndUses":          "Biểu tượng và công dụng",
			"biologicalCharacteristics": "Đặc điểm sinh học",
			"sampleImageUrl":            "Ảnh mẫu",
			"commonName":                "Tên thường gọi",
			"scientificName":            "Tên khoa học",
			"localName":                 "Tên địa phương",
			"size":                      "Kích thước",
			"petal":                     "Cánh hoa",
			"stamen":                    "Nhụy hoa",
			"leaf":                      "Lá",
			"stem":                      "Thân",
			"level":                     "Mức độ",
			"type":                      "Loại",
			"bloomingSeason":            "Mùa nở hoa",
			"bloomDuration":             "Thời gian nở hoa",
			"lifespan":                  "Tuổi thọ",
			"origin":                    "Nguồn gốc",
			"preferredEnvironment":      "Môi trường ưa thích",
			"adaptability":              "Khả năng thích nghi",
			"culturalSymbolism":         "Biểu tượng văn hóa",
			"uses":                      "Công dụng",
			"pollination":               "Thụ phấn",
			"hybridizationAbility":      "Khả năng lai tạo",
			"shape":                     "Hình dạng",
			"count":                     "Số lượng",
			"color":                     "Màu sắc",
			"texture":                   "Đặc tính",
			"features":                  "Đặc điểm",
		},
		AttributeColumn: defaultAttributeColumn,
		ValueColumn:     defaultValueColumn,
		FallbackHeading: defaultFallbackHeading,
	}
}

// Load reads a label table from a YAML file. Settings left empty in the file
// keep their built-in values; a non-empty fields map replaces the built-in one.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read label file: %w", err)
	}

	var loaded Table
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Table{}, fmt.Errorf("failed to parse label file %s: %w", path, err)
	}

	t := Default()
	if len(loaded.Fields) > 0 {
		t.Fields = loaded.Fields
	}
	if loaded.AttributeColumn != "" {
		t.AttributeColumn = loaded.AttributeColumn
	}
	if loaded.ValueColumn != "" {
		t.ValueColumn = loaded.ValueColumn
	}
	if loaded.FallbackHeading != "" {
		t.FallbackHeading = loaded.FallbackHeading
	}
	return t, nil
}

// FromPath loads the table at path, or returns Default when path is empty.
func FromPath(path string) (Table, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Marshal renders the table as YAML, in the format Load reads.
func (t Table) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(&t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal label table: %w", err)
	}
	return data, nil
}
