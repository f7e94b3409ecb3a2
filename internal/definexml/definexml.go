// Package definexml renders Define-XML 2.1 metadata documents describing
// the datasets a registry knows about. The output is the ODM snapshot
// regulators expect alongside a transport file: one ItemGroupDef per
// domain and one ItemDef per variable, with roles and lengths taken
// straight from the dataset schemas.
package definexml

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/sendstack/sendxpt/core/errors"
	"github.com/sendstack/sendxpt/core/schema"
)

const (
	odmNamespace   = "http://www.cdisc.org/ns/odm/v1.3"
	defNamespace   = "http://www.cdisc.org/ns/def/v2.1"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
	odmVersion     = "1.3.2"
)

// Options controls the study-level header of the generated document.
// Zero values get sensible defaults so callers only set what they know.
type Options struct {
	StudyID     string
	StudyName   string
	Description string
	Created     time.Time
}

func (o Options) withDefaults() Options {
	if o.StudyID == "" {
		o.StudyID = "UNKNOWN"
	}
	if o.StudyName == "" {
		o.StudyName = "Nonclinical Study"
	}
	if o.Description == "" {
		o.Description = "Dataset definitions for regulatory submission"
	}
	if o.Created.IsZero() {
		o.Created = time.Now().UTC()
	}
	return o
}

type odm struct {
	XMLName          xml.Name `xml:"ODM"`
	Namespace        string   `xml:"xmlns,attr"`
	DefNamespace     string   `xml:"xmlns:def,attr"`
	XlinkNamespace   string   `xml:"xmlns:xlink,attr"`
	ODMVersion       string   `xml:"ODMVersion,attr"`
	FileOID          string   `xml:"FileOID,attr"`
	FileType         string   `xml:"FileType,attr"`
	CreationDateTime string   `xml:"CreationDateTime,attr"`
	Study            study    `xml:"Study"`
}

type study struct {
	OID             string          `xml:"OID,attr"`
	GlobalVariables globalVariables `xml:"GlobalVariables"`
	MetaDataVersion metaDataVersion `xml:"MetaDataVersion"`
}

type globalVariables struct {
	StudyName        string `xml:"StudyName"`
	StudyDescription string `xml:"StudyDescription"`
	ProtocolName     string `xml:"ProtocolName"`
}

type metaDataVersion struct {
	OID           string         `xml:"OID,attr"`
	Name          string         `xml:"Name,attr"`
	ItemGroupDefs []itemGroupDef `xml:"ItemGroupDef"`
	ItemDefs      []itemDef      `xml:"ItemDef"`
}

type itemGroupDef struct {
	OID            string      `xml:"OID,attr"`
	Name           string      `xml:"Name,attr"`
	Repeating      string      `xml:"Repeating,attr"`
	SASDatasetName string      `xml:"SASDatasetName,attr"`
	Class          string      `xml:"def:Class,attr"`
	Description    description `xml:"Description"`
	ItemRefs       []itemRef   `xml:"ItemRef"`
}

type itemRef struct {
	ItemOID     string `xml:"ItemOID,attr"`
	OrderNumber int    `xml:"OrderNumber,attr"`
	Mandatory   string `xml:"Mandatory,attr"`
}

type itemDef struct {
	OID         string      `xml:"OID,attr"`
	Name        string      `xml:"Name,attr"`
	DataType    string      `xml:"DataType,attr"`
	Length      int         `xml:"Length,attr"`
	Role        string      `xml:"def:Role,attr"`
	Description description `xml:"Description"`
}

type description struct {
	TranslatedText translatedText `xml:"TranslatedText"`
}

type translatedText struct {
	Lang string `xml:"xml:lang,attr"`
	Text string `xml:",chardata"`
}

// datasetClass maps a domain to its SENDIG general observation class.
// Domains without an entry are findings datasets.
func datasetClass(domain string) string {
	switch domain {
	case "DM":
		return "SPECIAL PURPOSE"
	case "EX":
		return "INTERVENTIONS"
	case "TS", "TE", "TA", "TX":
		return "TRIAL DESIGN"
	default:
		return "FINDINGS"
	}
}

func dataType(k schema.Kind) string {
	if k == schema.Numeric {
		return "float"
	}
	return "text"
}

// Generate renders a Define-XML document covering the named domains.
// Every domain must resolve in the registry; the variable order inside
// each ItemGroupDef follows the schema's column order.
func Generate(reg *schema.Registry, domains []string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if len(domains) == 0 {
		domains = reg.Domains()
	}

	mdv := metaDataVersion{
		OID:  "MDV.1",
		Name: opts.StudyName + " metadata",
	}
	for _, domain := range domains {
		s, err := reg.Lookup(domain)
		if err != nil {
			return nil, err
		}
		required := make(map[string]bool)
		for _, name := range s.Required() {
			required[name] = true
		}

		group := itemGroupDef{
			OID:            "IG." + s.Domain,
			Name:           s.Domain,
			Repeating:      "Yes",
			SASDatasetName: s.Domain,
			Class:          datasetClass(s.Domain),
			Description:    describe(s.Label),
		}
		for i, v := range s.Variables {
			oid := fmt.Sprintf("IT.%s.%s", s.Domain, v.Name)
			mandatory := "No"
			role := "Record Qualifier"
			if required[v.Name] {
				mandatory = "Yes"
				role = "Identifier"
			}
			group.ItemRefs = append(group.ItemRefs, itemRef{
				ItemOID:     oid,
				OrderNumber: i + 1,
				Mandatory:   mandatory,
			})
			mdv.ItemDefs = append(mdv.ItemDefs, itemDef{
				OID:         oid,
				Name:        v.Name,
				DataType:    dataType(v.Kind),
				Length:      v.Length,
				Role:        role,
				Description: describe(v.Label),
			})
		}
		mdv.ItemGroupDefs = append(mdv.ItemGroupDefs, group)
	}

	doc := odm{
		Namespace:        odmNamespace,
		DefNamespace:     defNamespace,
		XlinkNamespace:   xlinkNamespace,
		ODMVersion:       odmVersion,
		FileOID:          "define_" + opts.Created.Format("20060102_150405"),
		FileType:         "Snapshot",
		CreationDateTime: opts.Created.Format(time.RFC3339),
		Study: study{
			OID: opts.StudyID,
			GlobalVariables: globalVariables{
				StudyName:        opts.StudyName,
				StudyDescription: opts.Description,
				ProtocolName:     opts.StudyID,
			},
			MetaDataVersion: mdv,
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "serializing define-xml")
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Write renders the document and writes it to path.
func Write(path string, reg *schema.Registry, domains []string, opts Options) error {
	body, err := Generate(reg, domains, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

func describe(text string) description {
	return description{TranslatedText: translatedText{Lang: "en", Text: text}}
}
