package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Mesh kinds drawn by the registry.
const (
	kindCube   = "cube"
	kindSphere = "sphere"
	kindPlane  = "plane"
)

// Sphere mesh resolution. Markers are tiny, the glow is drawn with DrawSphere.
const (
	sphereRings  = 16
	sphereSlices = 16
)

// cached holds mesh and material for a primitive kind. Created lazily on first draw.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// PointLight is the single point light fed to the lit shader. On is false when no light is attached.
type PointLight struct {
	On        bool
	Position  [3]float32
	Color     [3]float32
	Intensity float32
	Range     float32
}

// Lighting is the per-frame shader input: camera position, the sun and the attached point light.
type Lighting struct {
	ViewPos      [3]float32
	SunDir       [3]float32 // direction to the sun, normalized
	SunColor     [3]float32
	SunIntensity float32
	Point        PointLight
}

// registry maps primitive kinds to mesh+material. Meshes and the shared lit shader are created on
// first use so that GPU resources are allocated after the window/OpenGL context exists.
type registry struct {
	cache  map[string]cached
	shader rl.Shader
	loaded bool
}

func newRegistry() *registry {
	return &registry{cache: make(map[string]cached)}
}

func (r *registry) ensureShader() {
	if r.loaded {
		return
	}
	r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	r.loaded = true
}

// ensure creates the mesh and material for kind if not yet cached.
// 1×1×1 cube, sphere of radius 1 (scaled by the marker radius), 1×1 plane in XZ.
func (r *registry) ensure(kind string) (cached, bool) {
	if c, ok := r.cache[kind]; ok {
		return c, true
	}
	var mesh rl.Mesh
	switch kind {
	case kindCube:
		mesh = rl.GenMeshCube(1, 1, 1)
	case kindSphere:
		mesh = rl.GenMeshSphere(1, sphereRings, sphereSlices)
	case kindPlane:
		mesh = rl.GenMeshPlane(1, 1, 1, 1)
	default:
		return cached{}, false
	}
	r.ensureShader()
	mtl := rl.LoadMaterialDefault()
	if rl.IsShaderValid(r.shader) {
		mtl.Shader = r.shader
	}
	c := cached{mesh: mesh, mtl: mtl}
	r.cache[kind] = c
	return c, true
}

// setLighting uploads the frame's lighting uniforms. The shader is shared by every kind, so once
// per frame is enough (cgo-safe: local arrays).
func (r *registry) setLighting(l Lighting) {
	r.ensureShader()
	if !rl.IsShaderValid(r.shader) {
		return
	}
	s := r.shader
	amb := [4]float32{ambient[0], ambient[1], ambient[2], ambient[3]}
	setVec3(s, "viewPos", l.ViewPos)
	setVec3(s, "lightDir", l.SunDir)
	setVec3(s, "lightColor", l.SunColor)
	if loc := rl.GetShaderLocation(s, "ambient"); loc >= 0 {
		rl.SetShaderValueV(s, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	setFloat(s, "lightIntensity", l.SunIntensity*sunScale)
	setFloat(s, "specularPower", specularPower)
	setFloat(s, "specularStrength", specularStrength)

	on := float32(0)
	if l.Point.On {
		on = 1
	}
	setFloat(s, "pointOn", on)
	setVec3(s, "pointPos", l.Point.Position)
	setVec3(s, "pointColor", l.Point.Color)
	setFloat(s, "pointIntensity", l.Point.Intensity*pointScale)
	setFloat(s, "pointRange", l.Point.Range)
}

func setVec3(s rl.Shader, name string, v [3]float32) {
	if loc := rl.GetShaderLocation(s, name); loc >= 0 {
		rl.SetShaderValueV(s, loc, v[:], rl.ShaderUniformVec3, 1)
	}
}

func setFloat(s rl.Shader, name string, v float32) {
	if loc := rl.GetShaderLocation(s, name); loc >= 0 {
		rl.SetShaderValue(s, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

// draw draws one instance of kind centered at position with per-axis scale and albedo tint.
// Must be called between BeginMode3D and EndMode3D, after setLighting.
func (r *registry) draw(kind string, position, scale [3]float32, tint rl.Color) {
	c, ok := r.ensure(kind)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	for i := range scale {
		if scale[i] == 0 {
			scale[i] = 1
		}
	}
	scaleM := rl.MatrixScale(scale[0], scale[1], scale[2])
	transM := rl.MatrixTranslate(position[0], position[1], position[2])
	rl.DrawMesh(c.mesh, c.mtl, rl.MatrixMultiply(scaleM, transM))
}

// unload frees every cached mesh and the shared shader. Call before the window closes.
func (r *registry) unload() {
	for kind, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, kind)
	}
	if r.loaded && rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
	}
	r.loaded = false
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	// litFS: directional sun + ambient + specular, plus one optional point light with a smooth
	// range falloff.
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform float pointOn;
uniform vec3 pointPos;
uniform vec3 pointColor;
uniform float pointIntensity;
uniform float pointRange;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  vec3 point = vec3(0.0);
  if (pointOn > 0.5) {
    vec3 toLight = pointPos - fragPosition;
    float d = length(toLight);
    vec3 Lp = toLight / max(d, 0.0001);
    float falloff = clamp(1.0 - d / pointRange, 0.0, 1.0);
    float atten = pointIntensity * falloff * falloff;
    float NdotLp = max(dot(N, Lp), 0.0);
    vec3 Hp = normalize(Lp + V);
    float specP = pow(max(dot(N, Hp), 0.0), specularPower) * specularStrength;
    point = (tint.rgb * NdotLp + specP) * pointColor * atten;
  }
  finalColor = vec4(amb + diffuse + specular + point, tint.a);
}
`
)

// ambient is the ambient term (dim so shadowed areas aren't pure black).
var ambient = [4]float32{0.2, 0.22, 0.26, 1.0}

const (
	// sunScale maps the layout's sun intensity (1) to a diffuse factor that leaves room for the point light.
	sunScale = float32(0.6)
	// pointScale maps the layout's point intensity (20) into shader units.
	pointScale       = float32(0.05)
	specularPower    = float32(48.0)
	specularStrength = float32(0.35)
)
