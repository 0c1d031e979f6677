package content

// DefaultTypes set mínimo de tipos para arrancar sin archivo de contenido.
// Útil en dev y en los entornos de prueba; producción define los suyos.
func DefaultTypes() []ContentType {
	return []ContentType{
		{
			Name: "entry",
			Fields: []ContentField{
				{Name: "id", Kind: FieldID, Required: true},
				{Name: "title", Kind: FieldString, Required: true},
				{Name: "slug", Kind: FieldString},
				{Name: "body", Kind: FieldString},
				{Name: "postDate", Kind: FieldDateTime},
			},
			Mutable: true,
		},
		{
			Name: "asset",
			Fields: []ContentField{
				{Name: "id", Kind: FieldID, Required: true},
				{Name: "filename", Kind: FieldString, Required: true},
				{Name: "size", Kind: FieldInt},
				{Name: "url", Kind: FieldString},
			},
		},
	}
}
