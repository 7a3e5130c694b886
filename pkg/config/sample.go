// sample.go — Starter files written by `cardstencil init`.
package config

// ExampleYAML returns a commented cardstencil.yml matching the defaults.
func ExampleYAML() string {
	return `# CardStencil layout. Coordinates are template pixels.
layout:
  meta:
    name: Staff ID card
  template: id_template.png

  # Photo box: the normalized photo is stretched to exactly this size.
  photo: { x: 520, y: 200, width: 180, height: 180 }

  # Single text column flowing down from (x, y).
  text:
    x: 520
    y: 396
    wrapWidth: 260
    lineGap: 2
    sectionGap: 10
    blockGap: 4

  fonts:
    # path: custom TTF/OTF; builtin: go-regular, go-bold, go-medium, go-mono
    name:  { size: 56, min: 28 }
    id:    { size: 34 }
    role:  { size: 52, min: 20 }
    small: { size: 22 }
    system: [arial.ttf]

  colors:
    ink: "#000000"
    accent: "#FF0000"

  limits:
    nameLines: 2
    schoolLines: 3
    districtLines: 3

  # QR code of the generated ID; size 0 disables it.
  qr: { x: 40, y: 40, size: 0, level: medium }

batch:
  csv: id_data.csv
  photos: photos
  output: output
  workers: 1

columns:
  firstName: firstname
  lastName: lastname
  role: Role
  photo: Photo
  district: District
  school: School
`
}

// ExampleCSV returns a small record sheet using the default columns.
func ExampleCSV() string {
	return `firstname,lastname,Role,Photo,District,School
Ana,Lopez,Teacher,ana.jpg,North,Lincoln High
Marcus,O'Neil,Principal,,Riverside Unified,Thomas Jefferson High School for Science and Technology
`
}
