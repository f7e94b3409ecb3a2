package schema

// Built-in SEND domain schemas. Variable tables follow the SENDIG metadata
// the conversion pipeline ships with; a schema directory override can
// replace any of them at runtime.

func chr(name string, length int, label string) VariableSpec {
	return VariableSpec{Name: name, Kind: Character, Length: length, Label: label}
}

func num(name, label string) VariableSpec {
	return VariableSpec{Name: name, Kind: Numeric, Length: NumericFieldLength, Label: label}
}

// common returns the identifier variables every subject-level domain opens with.
func common(usubjidLen int) []VariableSpec {
	return []VariableSpec{
		chr("STUDYID", 20, "Study Identifier"),
		chr("DOMAIN", 2, "Domain Abbreviation"),
		chr("USUBJID", usubjidLen, "Unique Subject Identifier"),
	}
}

func domainSchema(domain, label string, usubjidLen int, vars ...VariableSpec) *DatasetSchema {
	return &DatasetSchema{
		Domain:    domain,
		Label:     label,
		Variables: append(common(usubjidLen), vars...),
	}
}

// BuiltinRegistry returns a registry preloaded with the standard SEND
// domain schemas.
func BuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, s := range builtinSchemas() {
		// Built-in tables are static and validated by tests; Register only
		// fails on malformed schemas.
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

func builtinSchemas() []*DatasetSchema {
	return []*DatasetSchema{
		domainSchema("TE", "Tissue Examination", 15,
			num("TESEQ", "Sequence Number"),
			chr("TESPEC", 40, "Specimen Type"),
			chr("TELOC", 40, "Location of Finding"),
			chr("TEORRES", 200, "Result as Originally Received"),
			chr("TESTRESC", 200, "Character Result/Finding"),
			chr("TESEV", 20, "Severity/Grade"),
			num("VISITNUM", "Visit Number"),
			num("VISITDY", "Planned Study Day of Visit"),
			chr("TESPID", 20, "Sponsor-Defined Identifier"),
		),
		domainSchema("MI", "Microscopic Findings", 64,
			num("MISEQ", "Sequence Number"),
			chr("MISPEC", 40, "Specimen Type"),
			chr("MILOC", 40, "Location of Finding"),
			chr("MIORRES", 200, "Result as Originally Received"),
			chr("MISTRESC", 200, "Character Result/Finding"),
			chr("MISEV", 20, "Severity/Grade"),
			num("VISITNUM", "Visit Number"),
			num("VISITDY", "Planned Study Day of Visit"),
			chr("MISPID", 20, "Sponsor-Defined Identifier"),
		),
		domainSchema("MA", "Macroscopic Findings", 64,
			num("MASEQ", "Sequence Number"),
			chr("MASPEC", 40, "Specimen Type"),
			chr("MALOC", 40, "Location of Finding"),
			chr("MAORRES", 200, "Result as Originally Received"),
			chr("MASTRESC", 200, "Character Result/Finding"),
			chr("MASEV", 20, "Severity/Grade"),
			num("VISITNUM", "Visit Number"),
			num("VISITDY", "Planned Study Day of Visit"),
			chr("MASPID", 20, "Sponsor-Defined Identifier"),
		),
		domainSchema("BW", "Body Weights", 64,
			num("BWSEQ", "Sequence Number"),
			chr("BWTESTCD", 8, "Body Weight Test Short Name"),
			chr("BWTEST", 40, "Body Weight Test Name"),
			chr("BWORRES", 200, "Result as Originally Received"),
			chr("BWORRESU", 40, "Original Units"),
			chr("BWSTRESC", 200, "Character Result/Finding"),
			num("BWSTRESN", "Numeric Result/Finding"),
			chr("BWSTRESU", 40, "Standard Units"),
			num("VISITNUM", "Visit Number"),
			num("VISITDY", "Planned Study Day of Visit"),
			chr("BWDTC", 19, "Date/Time of Collection"),
			num("BWDY", "Study Day of Collection"),
		),
		domainSchema("OM", "Organ Measurements", 64,
			num("OMSEQ", "Sequence Number"),
			chr("OMTESTCD", 8, "Organ Measurement Test Short Name"),
			chr("OMTEST", 40, "Organ Measurement Test Name"),
			chr("OMSPEC", 40, "Specimen Type"),
			chr("OMORRES", 200, "Result as Originally Received"),
			chr("OMORRESU", 40, "Original Units"),
			chr("OMSTRESC", 200, "Character Result/Finding"),
			num("OMSTRESN", "Numeric Result/Finding"),
			chr("OMSTRESU", 40, "Standard Units"),
			num("VISITNUM", "Visit Number"),
			num("VISITDY", "Planned Study Day of Visit"),
			chr("OMDTC", 19, "Date/Time of Collection"),
		),
		domainSchema("CL", "Clinical Observations", 64,
			num("CLSEQ", "Sequence Number"),
			chr("CLTESTCD", 8, "Clinical Observation Test Short Name"),
			chr("CLTEST", 40, "Clinical Observation Test Name"),
			chr("CLCAT", 40, "Category for Clinical Observation"),
			chr("CLORRES", 200, "Result as Originally Received"),
			chr("CLSTRESC", 200, "Character Result/Finding"),
			chr("CLSEV", 20, "Severity"),
			chr("CLDTC", 19, "Date/Time of Collection"),
			num("CLDY", "Study Day of Collection"),
		),
		domainSchema("LB", "Laboratory Test Results", 64,
			num("LBSEQ", "Sequence Number"),
			chr("LBTESTCD", 8, "Lab Test Short Name"),
			chr("LBTEST", 40, "Lab Test Name"),
			chr("LBCAT", 40, "Category for Lab Test"),
			chr("LBORRES", 200, "Result as Originally Received"),
			chr("LBORRESU", 40, "Original Units"),
			chr("LBSTRESC", 200, "Character Result/Finding"),
			num("LBSTRESN", "Numeric Result/Finding"),
			chr("LBSTRESU", 40, "Standard Units"),
			chr("LBBLFL", 1, "Baseline Flag"),
			chr("LBDTC", 19, "Date/Time of Collection"),
			num("LBDY", "Study Day of Collection"),
		),
		domainSchema("DM", "Demographics", 64,
			num("DMSEQ", "Sequence Number"),
			chr("SUBJID", 64, "Subject Identifier for the Study"),
			chr("RFSTDTC", 19, "Subject Reference Start Date/Time"),
			chr("RFENDTC", 19, "Subject Reference End Date/Time"),
			chr("SITEID", 15, "Study Site Identifier"),
			num("AGE", "Age"),
			chr("AGEU", 40, "Age Units"),
			chr("SEX", 1, "Sex"),
			chr("SPECIES", 40, "Species"),
			chr("STRAIN", 40, "Strain"),
			chr("ARMCD", 20, "Planned Arm Code"),
			chr("ARM", 200, "Description of Planned Arm"),
			chr("SETCD", 8, "Set Code"),
		),
		domainSchema("EX", "Exposure", 64,
			num("EXSEQ", "Sequence Number"),
			chr("EXTRT", 200, "Name of Treatment"),
			num("EXDOSE", "Dose"),
			chr("EXDOSU", 40, "Dose Units"),
			chr("EXDOSFRM", 40, "Dose Form"),
			chr("EXROUTE", 40, "Route of Administration"),
			chr("EXSTDTC", 19, "Start Date/Time of Treatment"),
			chr("EXENDTC", 19, "End Date/Time of Treatment"),
			num("EXSTDY", "Study Day of Start of Treatment"),
			num("EXENDY", "Study Day of End of Treatment"),
		),
		// Trial summary is a trial-level domain with no subject identifier.
		{
			Domain: "TS",
			Label:  "Trial Summary",
			Variables: []VariableSpec{
				chr("STUDYID", 20, "Study Identifier"),
				chr("DOMAIN", 2, "Domain Abbreviation"),
				num("TSSEQ", "Sequence Number"),
				chr("TSPARMCD", 8, "Trial Summary Parameter Short Name"),
				chr("TSPARM", 40, "Trial Summary Parameter"),
				chr("TSVAL", 200, "Parameter Value"),
			},
		},
	}
}
